package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&Color{}, &FlowerCategory{}, &Flower{},
		&ArrangementType{}, &Arrangement{}, &EventType{},
		&DesignTemplate{}, &DesignTemplateSlot{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to construct catalog service: %v", err)
	}
	return service, db
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to seed %T: %v", value, err)
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "#a1b2c3", want: "#A1B2C3"},
		{input: "#FFFFFF", want: "#FFFFFF"},
		{input: " #aabbcc ", want: "#AABBCC"},
		{input: "aabbcc", wantErr: true},
		{input: "#aabbc", wantErr: true},
		{input: "#aabbccdd", wantErr: true},
		{input: "#gggggg", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeHex(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidHex) {
				t.Fatalf("expected ErrInvalidHex for %q, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("normalize %q: got %q want %q", tt.input, got, tt.want)
		}
	}
}

func TestColorsForVendorFiltersAndOrders(t *testing.T) {
	service, db := newTestService(t)

	mustCreate(t, db, &Color{VendorID: 1, Name: "Zinnia Red", Hex: "#AA0000"})
	mustCreate(t, db, &Color{IsShared: true, Name: "Blush", Hex: "#F4C2C2"})
	mustCreate(t, db, &Color{VendorID: 2, Name: "Other Vendor Teal", Hex: "#008080"})
	mustCreate(t, db, &Color{VendorID: 1, Name: "Apricot", Hex: "#FBCEB1"})

	colors, err := service.ColorsForVendor(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(colors) != 3 {
		t.Fatalf("expected 3 visible colors, got %d", len(colors))
	}
	// Vendor-owned rows first, alphabetical within each group.
	if colors[0].Name != "Apricot" || colors[1].Name != "Zinnia Red" {
		t.Fatalf("unexpected vendor-owned ordering: %s, %s", colors[0].Name, colors[1].Name)
	}
	if colors[2].Name != "Blush" || !colors[2].IsShared {
		t.Fatalf("expected shared color last, got %s", colors[2].Name)
	}
	for _, color := range colors {
		if color.VendorID == 2 && !color.IsShared {
			t.Fatalf("leaked another vendor's private color: %s", color.Name)
		}
	}
}

func TestFlowerCategoriesForVendorBoundsPreview(t *testing.T) {
	service, db := newTestService(t)

	mustCreate(t, db, &FlowerCategory{VendorID: 1, Name: "Roses"})
	for i := 0; i < 8; i++ {
		mustCreate(t, db, &Flower{VendorID: 1, CategoryID: 1, Name: fmt.Sprintf("Rose %d", i)})
	}

	previews, err := service.FlowerCategoriesForVendor(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("expected 1 category, got %d", len(previews))
	}
	if previews[0].FlowerCount != 8 {
		t.Fatalf("expected flower count 8, got %d", previews[0].FlowerCount)
	}
	if len(previews[0].Flowers) != categoryPreviewSize {
		t.Fatalf("expected preview of %d flowers, got %d", categoryPreviewSize, len(previews[0].Flowers))
	}
}

func TestEventTypesForVendorFallsBackToDefaults(t *testing.T) {
	service, db := newTestService(t)

	eventTypes, err := service.EventTypesForVendor(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eventTypes) != len(defaultEventTypes) {
		t.Fatalf("expected %d fallback event types, got %d", len(defaultEventTypes), len(eventTypes))
	}
	for i, name := range defaultEventTypes {
		if eventTypes[i].Name != name {
			t.Fatalf("fallback order mismatch at %d: got %s want %s", i, eventTypes[i].Name, name)
		}
	}

	mustCreate(t, db, &EventType{VendorID: 1, Name: "Garden Wedding"})
	eventTypes, err = service.EventTypesForVendor(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eventTypes) != 1 || eventTypes[0].Name != "Garden Wedding" {
		t.Fatalf("expected vendor-defined event type to replace fallback, got %#v", eventTypes)
	}
}

func TestFindOrCreateEventTypeReusesVisibleRow(t *testing.T) {
	service, db := newTestService(t)

	mustCreate(t, db, &EventType{IsShared: true, Name: "General Inquiry"})

	eventType, err := service.FindOrCreateEventType(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eventType.IsShared {
		t.Fatalf("expected shared General Inquiry row to be reused")
	}

	created, err := service.FindOrCreateEventType(context.Background(), 1, "Elopement")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.VendorID != 1 || created.Name != "Elopement" {
		t.Fatalf("unexpected created event type: %#v", created)
	}

	var count int64
	if err := db.Model(&EventType{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 event type rows, got %d", count)
	}
}

func TestVerifyColorIDsRejectsForeignReferences(t *testing.T) {
	service, db := newTestService(t)

	mustCreate(t, db, &Color{VendorID: 1, Name: "Owned", Hex: "#111111"})
	mustCreate(t, db, &Color{IsShared: true, Name: "Shared", Hex: "#222222"})
	mustCreate(t, db, &Color{VendorID: 2, Name: "Foreign", Hex: "#333333"})

	if err := service.VerifyColorIDs(context.Background(), 1, []uint{1, 2}); err != nil {
		t.Fatalf("owned and shared ids should verify: %v", err)
	}
	if err := service.VerifyColorIDs(context.Background(), 1, nil); err != nil {
		t.Fatalf("empty id set should verify: %v", err)
	}

	err := service.VerifyColorIDs(context.Background(), 1, []uint{1, 3})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference for foreign id, got %v", err)
	}
	err = service.VerifyColorIDs(context.Background(), 1, []uint{99})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference for unknown id, got %v", err)
	}
}

func TestDefaultTemplatePrefersVendorOwned(t *testing.T) {
	service, db := newTestService(t)

	mustCreate(t, db, &DesignTemplate{IsShared: true, Name: "Shared Default", IsDefault: true})
	mustCreate(t, db, &DesignTemplate{VendorID: 1, Name: "House Default", IsDefault: true})
	mustCreate(t, db, &DesignTemplateSlot{TemplateID: 2, Section: "Personal", SlotNo: 1, ArrangementID: 10, Quantity: 1, Position: 0})
	mustCreate(t, db, &DesignTemplateSlot{TemplateID: 2, Section: "Ceremony", SlotNo: 1, ArrangementID: 11, Quantity: 2, Position: 1})

	template, slots, err := service.DefaultTemplate(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if template == nil || template.Name != "House Default" {
		t.Fatalf("expected vendor-owned default, got %#v", template)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Section != "Personal" || slots[1].Section != "Ceremony" {
		t.Fatalf("slots out of position order: %#v", slots)
	}

	template, _, err = service.DefaultTemplate(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if template == nil || template.Name != "Shared Default" {
		t.Fatalf("vendor without own default should fall back to shared, got %#v", template)
	}
}

func TestDefaultTemplateMissingIsSoftNil(t *testing.T) {
	service, _ := newTestService(t)

	template, slots, err := service.DefaultTemplate(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if template != nil || slots != nil {
		t.Fatalf("expected nil template and slots, got %#v %#v", template, slots)
	}
}
