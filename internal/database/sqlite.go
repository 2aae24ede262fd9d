package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"github.com/petalworks/bloom/backend/internal/clients"
	"github.com/petalworks/bloom/backend/internal/events"
	"github.com/petalworks/bloom/backend/internal/vendors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenSQLite establishes a SQLite connection and performs schema migrations.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}

// Migrate creates the schema and applies named data migrations.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&vendors.Vendor{},
		&clients.Client{},
		&clients.VendorClient{},
		&catalog.Color{},
		&catalog.FlowerCategory{},
		&catalog.Flower{},
		&catalog.ArrangementType{},
		&catalog.Arrangement{},
		&catalog.EventType{},
		&catalog.DesignTemplate{},
		&catalog.DesignTemplateSlot{},
		&events.Event{},
		&events.EventArrangement{},
		&events.EventDesign{},
		&events.EventDesignRevision{},
		&events.FlowerPreference{},
		&events.Inspiration{},
		&events.Chat{},
		&migrationRecord{},
	); err != nil {
		return err
	}

	return applyMigrations(db, logger)
}
