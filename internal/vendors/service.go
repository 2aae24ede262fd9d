package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested vendor does not exist.
	ErrNotFound = errors.New("vendors: vendor not found")

	errMissingDatabase = errors.New("database handle is required")
	errEmptySlug       = errors.New("vendors: slug is required")
)

// ServiceConfig describes the dependencies for vendor lookups.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service resolves vendors by slug and id.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the vendor service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("vendors: %w", errMissingDatabase)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, logger: logger}, nil
}

// BySlug returns the vendor registered under the given landing-page slug.
func (s *Service) BySlug(ctx context.Context, slug string) (Vendor, error) {
	trimmed := strings.ToLower(strings.TrimSpace(slug))
	if trimmed == "" {
		return Vendor{}, errEmptySlug
	}

	var vendor Vendor
	err := s.db.WithContext(ctx).Where("slug = ?", trimmed).Take(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Vendor{}, ErrNotFound
	}
	if err != nil {
		s.logger.Error("vendor slug lookup failed", zap.String("slug", trimmed), zap.Error(err))
		return Vendor{}, err
	}
	return vendor, nil
}

// ByID returns the vendor with the given id.
func (s *Service) ByID(ctx context.Context, id uint) (Vendor, error) {
	var vendor Vendor
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Vendor{}, ErrNotFound
	}
	if err != nil {
		s.logger.Error("vendor id lookup failed", zap.Uint("vendor_id", id), zap.Error(err))
		return Vendor{}, err
	}
	return vendor, nil
}
