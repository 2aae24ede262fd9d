package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petalworks/bloom/backend/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrEventNotFound indicates the referenced event does not exist.
	ErrEventNotFound = errors.New("events: event not found")
	// ErrDesignNotFound indicates no design has been saved for the event yet.
	ErrDesignNotFound = errors.New("events: design not found")
	// ErrInspirationNotFound indicates a delete matched zero rows.
	ErrInspirationNotFound = errors.New("events: inspiration not found")
	// ErrInspirationLimit indicates the per-event inspiration cap would be exceeded.
	ErrInspirationLimit = errors.New("events: inspiration limit exceeded")
	// ErrInvalidURL indicates a malformed external inspiration URL. The
	// whole URL batch is rejected.
	ErrInvalidURL = errors.New("events: invalid inspiration url")

	errMissingDatabase   = errors.New("database handle is required")
	errMissingImageStore = errors.New("image store is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError wraps a failure with a dotted operation code.
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

const (
	opServiceNew        = "events.service.new"
	opGetEvent          = "events.get_event"
	opUpsertArrangement = "events.upsert_arrangement"
	opListArrangements  = "events.list_arrangements"
	opDeleteArrangement = "events.delete_arrangement"
	opBulkUpdate        = "events.bulk_update"
	opSaveDesign        = "events.save_design"
	opGetDesign         = "events.get_design"
	opSaveFlowers       = "events.save_flower_preferences"
	opAddInspirations   = "events.add_inspirations"
	opListInspirations  = "events.list_inspirations"
	opDeleteInspiration = "events.delete_inspiration"
	opCountInspirations = "events.count_inspirations"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the event service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Images   storage.ImageStore
	Logger   *zap.Logger
}

// Service owns all event sub-resource persistence: arrangement slots,
// design snapshots, flower preferences, and inspirations.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	images storage.ImageStore
	logger *zap.Logger
}

// NewService constructs the event service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:     cfg.Database,
		clock:  clock,
		images: cfg.Images,
		logger: logger,
	}, nil
}

// GetEvent loads one event by id.
func (s *Service) GetEvent(ctx context.Context, eventID uint) (Event, error) {
	var event Event
	err := s.db.WithContext(ctx).Where("id = ?", eventID).Take(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		s.logError(opGetEvent, "query_failed", err, zap.Uint("event_id", eventID))
		return Event{}, newServiceError(opGetEvent, "query_failed", err)
	}
	return event, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("event service error", attrs...)
}
