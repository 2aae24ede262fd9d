package inquiry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/petalworks/bloom/backend/internal/auth"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"github.com/petalworks/bloom/backend/internal/clients"
	"github.com/petalworks/bloom/backend/internal/events"
	"github.com/petalworks/bloom/backend/internal/mail"
	"github.com/petalworks/bloom/backend/internal/vendors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrVendorNotFound indicates the inquiry names a vendor that does not exist.
var ErrVendorNotFound = errors.New("inquiry: vendor not found")

var (
	errMissingDatabase = errors.New("database handle is required")
	errMissingVendors  = errors.New("vendor service is required")
	errMissingClients  = errors.New("client service is required")
	errMissingCatalog  = errors.New("catalog service is required")
	errMissingTokens   = errors.New("token issuer is required")
)

// ServiceError wraps a pipeline failure with a dotted operation code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error { return e.err }

// Code returns the dotted operation code.
func (e *ServiceError) Code() string { return e.code }

const opCreate = "inquiry.create"

func newServiceError(reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", opCreate, reason), err: cause}
}

// ServiceConfig describes the collaborators of the intake pipeline.
type ServiceConfig struct {
	Database      *gorm.DB
	Vendors       *vendors.Service
	Clients       *clients.Service
	Catalog       *catalog.Service
	Tokens        *auth.ClientTokenIssuer
	Mail          mail.Sender
	Clock         func() time.Time
	Logger        *zap.Logger
	PublicBaseURL string
}

// Service runs the inquiry intake pipeline.
type Service struct {
	db      *gorm.DB
	vendors *vendors.Service
	clients *clients.Service
	catalog *catalog.Service
	tokens  *auth.ClientTokenIssuer
	mail    mail.Sender
	clock   func() time.Time
	logger  *zap.Logger
	baseURL string
}

// NewService constructs the inquiry service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError("missing_database", errMissingDatabase)
	}
	if cfg.Vendors == nil {
		return nil, newServiceError("missing_vendors", errMissingVendors)
	}
	if cfg.Clients == nil {
		return nil, newServiceError("missing_clients", errMissingClients)
	}
	if cfg.Catalog == nil {
		return nil, newServiceError("missing_catalog", errMissingCatalog)
	}
	if cfg.Tokens == nil {
		return nil, newServiceError("missing_tokens", errMissingTokens)
	}
	sender := cfg.Mail
	if sender == nil {
		sender = mail.Disabled{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:      cfg.Database,
		vendors: cfg.Vendors,
		clients: cfg.Clients,
		catalog: cfg.Catalog,
		tokens:  cfg.Tokens,
		mail:    sender,
		clock:   clock,
		logger:  logger,
		baseURL: cfg.PublicBaseURL,
	}, nil
}

// CreateInput is a validated inquiry submission.
type CreateInput struct {
	BrideName     string
	PartnerName   string
	Email         string
	Phone         string
	EventDate     time.Time
	VendorID      uint
	EventTypeName string
	Message       string
}

// Result reports what the pipeline produced.
type Result struct {
	InquiryID          uint   `json:"inquiryId"`
	InquiryNumber      string `json:"inquiryNumber"`
	LoginURL           string `json:"loginUrl"`
	DesignSlotsCreated int    `json:"designSlotsCreated"`
	ClientEmailSent    bool   `json:"clientEmailSent"`
	VendorEmailSent    bool   `json:"vendorEmailSent"`
}

// Create runs the intake pipeline: client find-or-create, event type
// find-or-create, event creation, default template slot copy, vendor-client
// link, chat record, then two best-effort emails. Persistence writes run
// sequentially before any email; email failure degrades the sent flags,
// never the outcome. The sequence is deliberately not one transaction: a
// partial failure after event creation leaves a recoverable event.
func (s *Service) Create(ctx context.Context, input CreateInput) (Result, error) {
	vendor, err := s.vendors.ByID(ctx, input.VendorID)
	if errors.Is(err, vendors.ErrNotFound) {
		return Result{}, ErrVendorNotFound
	}
	if err != nil {
		return Result{}, newServiceError("vendor_lookup_failed", err)
	}

	client, created, err := s.clients.FindOrCreateByEmail(ctx, input.BrideName, input.Email, input.Phone)
	if err != nil {
		return Result{}, newServiceError("client_failed", err)
	}
	if created {
		s.logger.Info("client created from inquiry",
			zap.Uint("client_id", client.ID), zap.Uint("vendor_id", vendor.ID))
	}

	eventType, err := s.catalog.FindOrCreateEventType(ctx, vendor.ID, input.EventTypeName)
	if err != nil {
		return Result{}, newServiceError("event_type_failed", err)
	}

	event := events.Event{
		ClientID:    client.ID,
		VendorID:    vendor.ID,
		EventTypeID: eventType.ID,
		WeddingDate: input.EventDate,
		Status:      events.StatusInquiry,
		Notes:       input.Message,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Result{}, newServiceError("event_create_failed", err)
	}

	slotsCreated, err := s.copyTemplateSlots(ctx, vendor.ID, event.ID)
	if err != nil {
		return Result{}, newServiceError("template_copy_failed", err)
	}

	if err := s.clients.LinkVendor(ctx, vendor.ID, client.ID); err != nil {
		return Result{}, newServiceError("vendor_link_failed", err)
	}

	chat := events.Chat{EventID: event.ID}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return Result{}, newServiceError("chat_create_failed", err)
	}

	loginURL, err := s.buildLoginURL(ctx, client.ID)
	if err != nil {
		return Result{}, newServiceError("login_url_failed", err)
	}

	result := Result{
		InquiryID:          event.ID,
		InquiryNumber:      fmt.Sprintf("INQ-%06d", event.ID),
		LoginURL:           loginURL,
		DesignSlotsCreated: slotsCreated,
	}
	result.ClientEmailSent, result.VendorEmailSent = s.sendNotifications(ctx, vendor, input, client.Phone, result)

	return result, nil
}

// copyTemplateSlots copies the vendor's default template into the event's
// slot rows. A missing template is a soft no-op, logged only.
func (s *Service) copyTemplateSlots(ctx context.Context, vendorID, eventID uint) (int, error) {
	template, slots, err := s.catalog.DefaultTemplate(ctx, vendorID)
	if err != nil {
		return 0, err
	}
	if template == nil {
		s.logger.Warn("no default design template for vendor",
			zap.Uint("vendor_id", vendorID), zap.Uint("event_id", eventID))
		return 0, nil
	}

	now := s.clock().UTC()
	for _, slot := range slots {
		row := events.EventArrangement{
			EventID:       eventID,
			Section:       slot.Section,
			SlotNo:        slot.SlotNo,
			SlotName:      slot.SlotName,
			ArrangementID: slot.ArrangementID,
			Quantity:      slot.Quantity,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return 0, err
		}
	}
	return len(slots), nil
}

func (s *Service) buildLoginURL(ctx context.Context, clientID uint) (string, error) {
	token, _, err := s.tokens.IssueClientToken(ctx, clientID)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/client/login?token=" + url.QueryEscape(token), nil
}

func (s *Service) sendNotifications(ctx context.Context, vendor vendors.Vendor, input CreateInput, clientPhone string, result Result) (bool, bool) {
	eventDate := input.EventDate.Format("January 2, 2006")

	clientSent := false
	welcomeHTML, err := mail.RenderClientWelcome(mail.ClientWelcomeData{
		BrideName:     input.BrideName,
		VendorName:    vendor.Name,
		EventDate:     eventDate,
		InquiryNumber: result.InquiryNumber,
		LoginURL:      result.LoginURL,
	})
	if err == nil {
		err = s.mail.Send(ctx, mail.Message{
			To:      input.Email,
			Subject: "Your inquiry with " + vendor.Name,
			HTML:    welcomeHTML,
		})
	}
	if err != nil {
		s.logger.Warn("client welcome email failed",
			zap.Uint("inquiry_id", result.InquiryID), zap.Error(err))
	} else {
		clientSent = true
	}

	vendorSent := false
	alertHTML, err := mail.RenderVendorAlert(mail.VendorAlertData{
		BrideName:     input.BrideName,
		ClientEmail:   input.Email,
		ClientPhone:   clientPhone,
		EventDate:     eventDate,
		InquiryNumber: result.InquiryNumber,
		Message:       input.Message,
	})
	if err == nil {
		err = s.mail.Send(ctx, mail.Message{
			To:      vendor.Email,
			Subject: "New inquiry " + result.InquiryNumber,
			HTML:    alertHTML,
		})
	}
	if err != nil {
		s.logger.Warn("vendor alert email failed",
			zap.Uint("inquiry_id", result.InquiryID), zap.Error(err))
	} else {
		vendorSent = true
	}

	return clientSent, vendorSent
}
