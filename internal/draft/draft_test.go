package draft

import (
	"testing"
	"time"
)

var testClockTime = time.Date(2026, time.July, 14, 9, 0, 0, 0, time.UTC)

func newTestDraft(t *testing.T, steps int) *Draft {
	t.Helper()
	d, err := New(Config{StepCount: steps, Clock: func() time.Time { return testClockTime }})
	if err != nil {
		t.Fatalf("failed to construct draft: %v", err)
	}
	return d
}

func TestNewRejectsZeroSteps(t *testing.T) {
	if _, err := New(Config{StepCount: 0}); err == nil {
		t.Fatalf("expected an error for zero steps")
	}
}

func TestSetStampsLastSavedAt(t *testing.T) {
	d := newTestDraft(t, 5)

	if !d.LastSavedAt.IsZero() {
		t.Fatalf("fresh draft must not carry a save stamp")
	}
	d.Set("brideName", "Dana")
	if d.LastSavedAt != testClockTime {
		t.Fatalf("expected optimistic stamp %v, got %v", testClockTime, d.LastSavedAt)
	}
	if d.Answers["brideName"] != "Dana" {
		t.Fatalf("expected answer to merge, got %#v", d.Answers)
	}
}

func TestStepNavigationClamps(t *testing.T) {
	d := newTestDraft(t, 3)

	d.Prev()
	if d.Step != 1 {
		t.Fatalf("expected Prev on step 1 to clamp, got %d", d.Step)
	}

	d.Next()
	d.Next()
	d.Next()
	d.Next()
	if d.Step != 3 {
		t.Fatalf("expected Next past the end to clamp, got %d", d.Step)
	}

	d.GoToStep(99)
	if d.Step != 3 {
		t.Fatalf("expected jump past the end to clamp, got %d", d.Step)
	}
	d.GoToStep(-4)
	if d.Step != 1 {
		t.Fatalf("expected jump below 1 to clamp, got %d", d.Step)
	}
}

func TestPreviewKeepsCursor(t *testing.T) {
	d := newTestDraft(t, 5)
	d.GoToStep(4)

	d.GoToPreview()
	if !d.InPreview || d.Step != 4 {
		t.Fatalf("preview must keep the cursor, got step %d preview %v", d.Step, d.InPreview)
	}

	d.GoBackFromPreview()
	if d.InPreview || d.Step != 4 {
		t.Fatalf("expected return to step 4, got step %d preview %v", d.Step, d.InPreview)
	}

	d.GoToPreview()
	d.GoToStep(2)
	if d.InPreview {
		t.Fatalf("jumping to a step must leave preview")
	}
}

func TestSnapshotIsolatesAnswers(t *testing.T) {
	d := newTestDraft(t, 2)
	d.Set("city", "Portland")

	snapshot := d.Snapshot()
	d.Set("city", "Salem")

	if snapshot["city"] != "Portland" {
		t.Fatalf("snapshot must be isolated from later typing, got %v", snapshot["city"])
	}
}
