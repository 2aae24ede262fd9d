package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/petalworks/bloom/backend/internal/clients"
	"github.com/petalworks/bloom/backend/internal/events"
)

func validInquiryPayload(vendorID uint) map[string]any {
	return map[string]any{
		"brideName": "Dana Rivera",
		"email":     "dana@example.com",
		"phone":     "555-010-2030",
		"eventDate": "2027-06-12",
		"vendorId":  vendorID,
		"message":   "Garden ceremony for 80 guests",
	}
}

func TestCreateInquiryHappyPath(t *testing.T) {
	server := newTestServer(t, false)

	recorder, parsed := server.request(t, http.MethodPost, "/api/inquiries/create", validInquiryPayload(server.vendor.ID), nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	if !parsed.Success {
		t.Fatalf("expected success envelope")
	}
	inquiryNumber, _ := parsed.Data["inquiryNumber"].(string)
	if !strings.HasPrefix(inquiryNumber, "INQ-") {
		t.Fatalf("unexpected inquiry number: %v", parsed.Data["inquiryNumber"])
	}
	loginURL, _ := parsed.Data["loginUrl"].(string)
	if !strings.HasPrefix(loginURL, "https://app.bloom.test/client/login?token=") {
		t.Fatalf("unexpected login url: %v", parsed.Data["loginUrl"])
	}
	if sent, _ := parsed.Data["clientEmailSent"].(bool); !sent {
		t.Fatalf("expected clientEmailSent true with a working sender")
	}
	if parsed.Data["message"] != "Inquiry received" {
		t.Fatalf("unexpected message: %v", parsed.Data["message"])
	}

	var eventCount int64
	if err := server.db.Model(&events.Event{}).Count(&eventCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected one event, got %d", eventCount)
	}
	var clientCount int64
	if err := server.db.Model(&clients.Client{}).Count(&clientCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if clientCount != 1 {
		t.Fatalf("expected one client, got %d", clientCount)
	}
}

func TestCreateInquiryValidation(t *testing.T) {
	server := newTestServer(t, false)

	payload := validInquiryPayload(server.vendor.ID)
	delete(payload, "brideName")
	payload["email"] = "not-an-email"

	recorder, parsed := server.request(t, http.MethodPost, "/api/inquiries/create", payload, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if parsed.Error == nil || parsed.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error body: %+v", parsed.Error)
	}
	if parsed.Error.Fields["brideName"] != "is required" {
		t.Fatalf("expected brideName field error, got %v", parsed.Error.Fields)
	}
	if parsed.Error.Fields["email"] != "must be a valid email address" {
		t.Fatalf("expected email field error, got %v", parsed.Error.Fields)
	}
}

func TestCreateInquiryRejectsBadDate(t *testing.T) {
	server := newTestServer(t, false)

	payload := validInquiryPayload(server.vendor.ID)
	payload["eventDate"] = "June 12, 2027"

	recorder, parsed := server.request(t, http.MethodPost, "/api/inquiries/create", payload, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if parsed.Error == nil || parsed.Error.Fields["eventDate"] == "" {
		t.Fatalf("expected eventDate field error, got %+v", parsed.Error)
	}
}

func TestCreateInquiryUnknownVendor(t *testing.T) {
	server := newTestServer(t, false)

	recorder, parsed := server.request(t, http.MethodPost, "/api/inquiries/create", validInquiryPayload(999), nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	if parsed.Error == nil || parsed.Error.Message != "Vendor not found" {
		t.Fatalf("unexpected error body: %+v", parsed.Error)
	}
}
