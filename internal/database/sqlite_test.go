package database

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:database_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return db
}

func TestMigrateSeedsSharedCatalog(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var colorCount int64
	if err := db.Model(&catalog.Color{}).Where("is_shared = ?", true).Count(&colorCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if colorCount != 6 {
		t.Fatalf("expected 6 shared colors, got %d", colorCount)
	}

	var categoryCount int64
	if err := db.Model(&catalog.FlowerCategory{}).Where("is_shared = ?", true).Count(&categoryCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if categoryCount != 4 {
		t.Fatalf("expected 4 shared categories, got %d", categoryCount)
	}

	var typeCount int64
	if err := db.Model(&catalog.ArrangementType{}).Where("is_shared = ?", true).Count(&typeCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if typeCount != 4 {
		t.Fatalf("expected 4 shared arrangement types, got %d", typeCount)
	}

	var record migrationRecord
	if err := db.Where("name = ?", migrationSeedSharedCatalog).Take(&record).Error; err != nil {
		t.Fatalf("expected migration record: %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 2; i++ {
		if err := Migrate(db, nil); err != nil {
			t.Fatalf("migrate run %d failed: %v", i, err)
		}
	}

	var colorCount int64
	if err := db.Model(&catalog.Color{}).Count(&colorCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if colorCount != 6 {
		t.Fatalf("seed must run once, got %d colors", colorCount)
	}
}
