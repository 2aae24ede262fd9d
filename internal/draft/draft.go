package draft

import (
	"errors"
	"time"
)

// errInvalidStepCount indicates a wizard with no steps.
var errInvalidStepCount = errors.New("draft: step count must be positive")

// Config describes a wizard draft.
type Config struct {
	StepCount int
	Clock     func() time.Time
}

// Draft holds a client's onboarding answers and the wizard step cursor.
// It is plain serializable state threaded explicitly through the wizard,
// not a global store. Mutations stamp LastSavedAt optimistically, before
// any network confirmation.
type Draft struct {
	Answers     map[string]any
	Step        int
	StepCount   int
	InPreview   bool
	LastSavedAt time.Time

	clock func() time.Time
}

// New constructs an empty draft positioned on step 1.
func New(cfg Config) (*Draft, error) {
	if cfg.StepCount <= 0 {
		return nil, errInvalidStepCount
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Draft{
		Answers:   make(map[string]any),
		Step:      1,
		StepCount: cfg.StepCount,
		clock:     clock,
	}, nil
}

// Set merges one field into the draft and stamps LastSavedAt.
func (d *Draft) Set(field string, value any) {
	d.Answers[field] = value
	d.LastSavedAt = d.clock().UTC()
}

// Next advances one step, clamped to the last step.
func (d *Draft) Next() {
	d.GoToStep(d.Step + 1)
}

// Prev moves back one step, clamped to the first step.
func (d *Draft) Prev() {
	d.GoToStep(d.Step - 1)
}

// GoToStep jumps to a step, clamped to [1, StepCount]. Leaves preview.
func (d *Draft) GoToStep(step int) {
	if step < 1 {
		step = 1
	}
	if step > d.StepCount {
		step = d.StepCount
	}
	d.Step = step
	d.InPreview = false
}

// GoToPreview jumps to the terminal preview step, keeping the cursor so
// GoBackFromPreview can return to it.
func (d *Draft) GoToPreview() {
	d.InPreview = true
}

// GoBackFromPreview returns to the step the wizard was on before preview.
func (d *Draft) GoBackFromPreview() {
	d.InPreview = false
}

// Snapshot copies the answers for a save, so in-flight saves are isolated
// from further typing.
func (d *Draft) Snapshot() map[string]any {
	copied := make(map[string]any, len(d.Answers))
	for key, value := range d.Answers {
		copied[key] = value
	}
	return copied
}
