package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/petalworks/bloom/backend/internal/auth"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"github.com/petalworks/bloom/backend/internal/clients"
	"github.com/petalworks/bloom/backend/internal/events"
	"github.com/petalworks/bloom/backend/internal/mail"
	"github.com/petalworks/bloom/backend/internal/vendors"
	"gorm.io/gorm"
)

type recordingSender struct {
	sent []mail.Message
	fail error
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, msg)
	return nil
}

type testHarness struct {
	service *Service
	db      *gorm.DB
	sender  *recordingSender
	vendor  vendors.Vendor
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	dsn := fmt.Sprintf("file:inquiry_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&vendors.Vendor{}, &clients.Client{}, &clients.VendorClient{},
		&catalog.Color{}, &catalog.EventType{},
		&catalog.DesignTemplate{}, &catalog.DesignTemplateSlot{},
		&events.Event{}, &events.EventArrangement{}, &events.Chat{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	vendor := vendors.Vendor{Name: "Petal & Stem", Slug: "petal-and-stem", Email: "studio@petalandstem.test"}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("failed to seed vendor: %v", err)
	}

	vendorService, err := vendors.NewService(vendors.ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to construct vendor service: %v", err)
	}
	clientService, err := clients.NewService(clients.ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to construct client service: %v", err)
	}
	catalogService, err := catalog.NewService(catalog.ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to construct catalog service: %v", err)
	}
	issuer := auth.NewClientTokenIssuer(auth.ClientTokenIssuerConfig{
		SigningSecret: []byte("test-secret"),
		Issuer:        "bloom-api",
		Audience:      "bloom-client",
		TokenTTL:      time.Hour,
	})
	sender := &recordingSender{}

	service, err := NewService(ServiceConfig{
		Database:      db,
		Vendors:       vendorService,
		Clients:       clientService,
		Catalog:       catalogService,
		Tokens:        issuer,
		Mail:          sender,
		PublicBaseURL: "https://app.bloom.test",
	})
	if err != nil {
		t.Fatalf("failed to construct inquiry service: %v", err)
	}

	return &testHarness{service: service, db: db, sender: sender, vendor: vendor}
}

func (h *testHarness) seedDefaultTemplate(t *testing.T, slotCount int) {
	t.Helper()
	template := catalog.DesignTemplate{VendorID: h.vendor.ID, Name: "House Default", IsDefault: true}
	if err := h.db.Create(&template).Error; err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}
	sections := []string{"Personal", "Ceremony", "Reception"}
	for i := 0; i < slotCount; i++ {
		slot := catalog.DesignTemplateSlot{
			TemplateID:    template.ID,
			Section:       sections[i%len(sections)],
			SlotNo:        i/len(sections) + 1,
			ArrangementID: uint(i + 1),
			Quantity:      1,
			Position:      i,
		}
		if err := h.db.Create(&slot).Error; err != nil {
			t.Fatalf("failed to seed slot: %v", err)
		}
	}
}

func testInput(vendorID uint) CreateInput {
	return CreateInput{
		BrideName: "Dana Rivera",
		Email:     "dana@example.com",
		Phone:     "555-010-2030",
		EventDate: time.Date(2027, time.June, 12, 0, 0, 0, 0, time.UTC),
		VendorID:  vendorID,
		Message:   "Garden ceremony for 80 guests",
	}
}

func TestCreateRunsFullPipeline(t *testing.T) {
	harness := newTestHarness(t)
	harness.seedDefaultTemplate(t, 3)

	result, err := harness.service.Create(context.Background(), testInput(harness.vendor.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.InquiryID == 0 {
		t.Fatalf("expected an inquiry id")
	}
	wantNumber := fmt.Sprintf("INQ-%06d", result.InquiryID)
	if result.InquiryNumber != wantNumber {
		t.Fatalf("expected inquiry number %s, got %s", wantNumber, result.InquiryNumber)
	}
	if result.DesignSlotsCreated != 3 {
		t.Fatalf("expected 3 template slots copied, got %d", result.DesignSlotsCreated)
	}
	if !strings.HasPrefix(result.LoginURL, "https://app.bloom.test/client/login?token=") {
		t.Fatalf("unexpected login url: %s", result.LoginURL)
	}
	if !result.ClientEmailSent || !result.VendorEmailSent {
		t.Fatalf("expected both emails sent, got client=%v vendor=%v", result.ClientEmailSent, result.VendorEmailSent)
	}

	var event events.Event
	if err := harness.db.Take(&event, result.InquiryID).Error; err != nil {
		t.Fatalf("failed to load event: %v", err)
	}
	if event.Status != events.StatusInquiry {
		t.Fatalf("expected status %q, got %q", events.StatusInquiry, event.Status)
	}
	if event.Notes != "Garden ceremony for 80 guests" {
		t.Fatalf("unexpected event notes: %q", event.Notes)
	}

	var slotCount int64
	if err := harness.db.Model(&events.EventArrangement{}).Where("event_id = ?", event.ID).Count(&slotCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if slotCount != 3 {
		t.Fatalf("expected 3 arrangement rows, got %d", slotCount)
	}

	var chatCount int64
	if err := harness.db.Model(&events.Chat{}).Where("event_id = ?", event.ID).Count(&chatCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if chatCount != 1 {
		t.Fatalf("expected a chat record, got %d", chatCount)
	}

	var linkCount int64
	if err := harness.db.Model(&clients.VendorClient{}).Where("vendor_id = ?", harness.vendor.ID).Count(&linkCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if linkCount != 1 {
		t.Fatalf("expected a vendor-client link, got %d", linkCount)
	}

	if len(harness.sender.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(harness.sender.sent))
	}
	if harness.sender.sent[0].To != "dana@example.com" {
		t.Fatalf("expected welcome email to client, got %s", harness.sender.sent[0].To)
	}
	if harness.sender.sent[1].To != harness.vendor.Email {
		t.Fatalf("expected alert email to vendor, got %s", harness.sender.sent[1].To)
	}
}

func TestCreateWithoutTemplateIsSoftNoOp(t *testing.T) {
	harness := newTestHarness(t)

	result, err := harness.service.Create(context.Background(), testInput(harness.vendor.ID))
	if err != nil {
		t.Fatalf("a missing template must not fail the inquiry: %v", err)
	}
	if result.DesignSlotsCreated != 0 {
		t.Fatalf("expected zero slots copied, got %d", result.DesignSlotsCreated)
	}
}

func TestCreateReusesClientAcrossInquiries(t *testing.T) {
	harness := newTestHarness(t)

	first, err := harness.service.Create(context.Background(), testInput(harness.vendor.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := harness.service.Create(context.Background(), testInput(harness.vendor.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.InquiryID == second.InquiryID {
		t.Fatalf("expected distinct events per inquiry")
	}

	var clientCount int64
	if err := harness.db.Model(&clients.Client{}).Count(&clientCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if clientCount != 1 {
		t.Fatalf("expected one client row across inquiries, got %d", clientCount)
	}

	var linkCount int64
	if err := harness.db.Model(&clients.VendorClient{}).Count(&linkCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if linkCount != 1 {
		t.Fatalf("expected one vendor-client link, got %d", linkCount)
	}
}

func TestCreateDegradesWhenMailFails(t *testing.T) {
	harness := newTestHarness(t)
	harness.sender.fail = errors.New("relay unreachable")

	result, err := harness.service.Create(context.Background(), testInput(harness.vendor.ID))
	if err != nil {
		t.Fatalf("mail failure must not fail the inquiry: %v", err)
	}
	if result.ClientEmailSent || result.VendorEmailSent {
		t.Fatalf("expected degraded sent flags, got client=%v vendor=%v", result.ClientEmailSent, result.VendorEmailSent)
	}

	var eventCount int64
	if err := harness.db.Model(&events.Event{}).Count(&eventCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("persistence must complete before mail, got %d events", eventCount)
	}
}

func TestCreateUnknownVendor(t *testing.T) {
	harness := newTestHarness(t)

	_, err := harness.service.Create(context.Background(), testInput(999))
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}

	var eventCount int64
	if err := harness.db.Model(&events.Event{}).Count(&eventCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if eventCount != 0 {
		t.Fatalf("expected no event rows, got %d", eventCount)
	}
}

func TestCreateResolvesEventTypeName(t *testing.T) {
	harness := newTestHarness(t)

	input := testInput(harness.vendor.ID)
	input.EventTypeName = "Elopement"
	result, err := harness.service.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var event events.Event
	if err := harness.db.Take(&event, result.InquiryID).Error; err != nil {
		t.Fatalf("failed to load event: %v", err)
	}
	var eventType catalog.EventType
	if err := harness.db.Take(&eventType, event.EventTypeID).Error; err != nil {
		t.Fatalf("failed to load event type: %v", err)
	}
	if eventType.Name != "Elopement" || eventType.VendorID != harness.vendor.ID {
		t.Fatalf("unexpected event type: %#v", eventType)
	}
}
