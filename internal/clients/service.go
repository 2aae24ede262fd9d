package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	errEmptyEmail      = errors.New("clients: email is required")
)

// ServiceConfig describes the dependencies for client management.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service manages client records and their vendor links.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the client service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("clients: %w", errMissingDatabase)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, logger: logger}, nil
}

// FindOrCreateByEmail reuses the client registered under the email or
// creates one. The initial credential is the phone number; only its bcrypt
// hash is stored. On revisit, name and phone are refreshed when changed.
// The boolean reports whether a new row was created.
func (s *Service) FindOrCreateByEmail(ctx context.Context, name, email, phone string) (Client, bool, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return Client{}, false, errEmptyEmail
	}

	var client Client
	err := s.db.WithContext(ctx).Where("email = ?", normalizedEmail).Take(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(digitsOnly(phone)), bcrypt.DefaultCost)
		if hashErr != nil {
			return Client{}, false, hashErr
		}
		client = Client{
			Name:         strings.TrimSpace(name),
			Email:        normalizedEmail,
			Phone:        strings.TrimSpace(phone),
			PasswordHash: string(hash),
		}
		if createErr := s.db.WithContext(ctx).Create(&client).Error; createErr != nil {
			return Client{}, false, createErr
		}
		return client, true, nil
	}
	if err != nil {
		return Client{}, false, err
	}

	updates := map[string]any{}
	if trimmed := strings.TrimSpace(name); trimmed != "" && trimmed != client.Name {
		updates["name"] = trimmed
		client.Name = trimmed
	}
	if trimmed := strings.TrimSpace(phone); trimmed != "" && trimmed != client.Phone {
		updates["phone"] = trimmed
		client.Phone = trimmed
	}
	if len(updates) > 0 {
		if updateErr := s.db.WithContext(ctx).Model(&Client{}).Where("id = ?", client.ID).Updates(updates).Error; updateErr != nil {
			s.logger.Warn("client refresh failed", zap.Uint("client_id", client.ID), zap.Error(updateErr))
		}
	}
	return client, false, nil
}

// VerifyPassword checks a client credential against the stored hash.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) (Client, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	var client Client
	if err := s.db.WithContext(ctx).Where("email = ?", normalizedEmail).Take(&client).Error; err != nil {
		return Client{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)); err != nil {
		return Client{}, err
	}
	return client, nil
}

// LinkVendor upserts the vendor-client pair. Safe to call repeatedly.
func (s *Service) LinkVendor(ctx context.Context, vendorID, clientID uint) error {
	link := VendorClient{VendorID: vendorID, ClientID: clientID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vendor_id"}, {Name: "client_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
