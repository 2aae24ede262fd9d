package database

import (
	"errors"
	"time"

	"github.com/petalworks/bloom/backend/internal/catalog"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationSeedSharedCatalog = "2026-07-14_seed_shared_catalog"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationSeedSharedCatalog, apply: seedSharedCatalog},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// seedSharedCatalog installs the catalog rows visible to every vendor.
func seedSharedCatalog(db *gorm.DB) error {
	sharedColors := []catalog.Color{
		{IsShared: true, Name: "Blush", Hex: "#F4C2C2"},
		{IsShared: true, Name: "Ivory", Hex: "#FFFFF0"},
		{IsShared: true, Name: "Sage", Hex: "#B2AC88"},
		{IsShared: true, Name: "Dusty Blue", Hex: "#8CA9C3"},
		{IsShared: true, Name: "Burgundy", Hex: "#800020"},
		{IsShared: true, Name: "Champagne", Hex: "#F7E7CE"},
	}
	for _, color := range sharedColors {
		if err := db.Create(&color).Error; err != nil {
			return err
		}
	}

	sharedCategories := []catalog.FlowerCategory{
		{IsShared: true, Name: "Roses"},
		{IsShared: true, Name: "Peonies"},
		{IsShared: true, Name: "Greenery"},
		{IsShared: true, Name: "Filler Flowers"},
	}
	for _, category := range sharedCategories {
		if err := db.Create(&category).Error; err != nil {
			return err
		}
	}

	sharedTypes := []catalog.ArrangementType{
		{IsShared: true, Name: "Bouquet"},
		{IsShared: true, Name: "Boutonniere"},
		{IsShared: true, Name: "Centerpiece"},
		{IsShared: true, Name: "Ceremony Installation"},
	}
	for _, arrangementType := range sharedTypes {
		if err := db.Create(&arrangementType).Error; err != nil {
			return err
		}
	}

	return nil
}
