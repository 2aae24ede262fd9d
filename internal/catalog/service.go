package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	categoryPreviewSize    = 5
	arrangementPreviewSize = 3
	defaultEventTypeName   = "General Inquiry"
)

var (
	// ErrInvalidReference indicates a referenced catalog id that is neither
	// owned by the vendor nor shared. The whole batch is rejected.
	ErrInvalidReference = errors.New("catalog: invalid reference")

	errMissingDatabase = errors.New("database handle is required")
)

// defaultEventTypes backs EventTypesForVendor when a vendor has defined none.
var defaultEventTypes = []string{
	"Wedding",
	"Engagement Party",
	"Bridal Shower",
	defaultEventTypeName,
}

// ServiceConfig describes the dependencies for catalog reads.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service serves vendor-scoped catalog reads. Every query filters to rows
// the vendor owns or rows shared across all vendors.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the catalog service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("catalog: %w", errMissingDatabase)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, logger: logger}, nil
}

func (s *Service) visibleTo(ctx context.Context, vendorID uint) *gorm.DB {
	return s.db.WithContext(ctx).Where("vendor_id = ? OR is_shared = ?", vendorID, true)
}

// Vendor-owned rows sort before shared rows, then alphabetically.
func ownedFirstOrder(vendorID uint) string {
	return fmt.Sprintf("CASE WHEN vendor_id = %d THEN 0 ELSE 1 END, name ASC", vendorID)
}

// ColorsForVendor lists the colors visible to a vendor.
func (s *Service) ColorsForVendor(ctx context.Context, vendorID uint) ([]Color, error) {
	var colors []Color
	if err := s.visibleTo(ctx, vendorID).Order(ownedFirstOrder(vendorID)).Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

// FlowersForVendor lists the flowers visible to a vendor with their categories.
func (s *Service) FlowersForVendor(ctx context.Context, vendorID uint) ([]Flower, error) {
	var flowers []Flower
	if err := s.visibleTo(ctx, vendorID).
		Preload("Category").
		Order(ownedFirstOrder(vendorID)).
		Find(&flowers).Error; err != nil {
		return nil, err
	}
	return flowers, nil
}

// ArrangementsForVendor lists the arrangements visible to a vendor with their types.
func (s *Service) ArrangementsForVendor(ctx context.Context, vendorID uint) ([]Arrangement, error) {
	var arrangements []Arrangement
	if err := s.visibleTo(ctx, vendorID).
		Preload("Type").
		Order(ownedFirstOrder(vendorID)).
		Find(&arrangements).Error; err != nil {
		return nil, err
	}
	return arrangements, nil
}

// CategoryPreview is a flower category with a bounded flower preview.
type CategoryPreview struct {
	FlowerCategory
	Flowers     []Flower `json:"flowers"`
	FlowerCount int64    `json:"flowerCount"`
}

// FlowerCategoriesForVendor lists visible categories, each with up to five
// flowers and the total flower count.
func (s *Service) FlowerCategoriesForVendor(ctx context.Context, vendorID uint) ([]CategoryPreview, error) {
	var categories []FlowerCategory
	if err := s.visibleTo(ctx, vendorID).Order(ownedFirstOrder(vendorID)).Find(&categories).Error; err != nil {
		return nil, err
	}

	previews := make([]CategoryPreview, 0, len(categories))
	for _, category := range categories {
		preview := CategoryPreview{FlowerCategory: category}
		flowerScope := s.visibleTo(ctx, vendorID).Where("category_id = ?", category.ID)
		if err := flowerScope.Model(&Flower{}).Count(&preview.FlowerCount).Error; err != nil {
			return nil, err
		}
		if err := s.visibleTo(ctx, vendorID).
			Where("category_id = ?", category.ID).
			Order("name ASC").
			Limit(categoryPreviewSize).
			Find(&preview.Flowers).Error; err != nil {
			return nil, err
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

// TypePreview is an arrangement type with a bounded arrangement preview.
type TypePreview struct {
	ArrangementType
	Arrangements     []Arrangement `json:"arrangements"`
	ArrangementCount int64         `json:"arrangementCount"`
}

// ArrangementTypesForVendor lists visible types, each with up to three
// arrangements and the total arrangement count.
func (s *Service) ArrangementTypesForVendor(ctx context.Context, vendorID uint) ([]TypePreview, error) {
	var types []ArrangementType
	if err := s.visibleTo(ctx, vendorID).Order(ownedFirstOrder(vendorID)).Find(&types).Error; err != nil {
		return nil, err
	}

	previews := make([]TypePreview, 0, len(types))
	for _, arrangementType := range types {
		preview := TypePreview{ArrangementType: arrangementType}
		typeScope := s.visibleTo(ctx, vendorID).Where("type_id = ?", arrangementType.ID)
		if err := typeScope.Model(&Arrangement{}).Count(&preview.ArrangementCount).Error; err != nil {
			return nil, err
		}
		if err := s.visibleTo(ctx, vendorID).
			Where("type_id = ?", arrangementType.ID).
			Order("name ASC").
			Limit(arrangementPreviewSize).
			Find(&preview.Arrangements).Error; err != nil {
			return nil, err
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

// EventTypesForVendor lists visible event types, falling back to the
// built-in defaults when the vendor has defined none.
func (s *Service) EventTypesForVendor(ctx context.Context, vendorID uint) ([]EventType, error) {
	var eventTypes []EventType
	if err := s.visibleTo(ctx, vendorID).Order(ownedFirstOrder(vendorID)).Find(&eventTypes).Error; err != nil {
		return nil, err
	}
	if len(eventTypes) > 0 {
		return eventTypes, nil
	}

	fallback := make([]EventType, 0, len(defaultEventTypes))
	for _, name := range defaultEventTypes {
		fallback = append(fallback, EventType{Name: name, IsShared: true})
	}
	return fallback, nil
}

// FindOrCreateEventType resolves an event type by name for a vendor,
// creating a vendor-private row when no visible match exists.
func (s *Service) FindOrCreateEventType(ctx context.Context, vendorID uint, name string) (EventType, error) {
	if name == "" {
		name = defaultEventTypeName
	}

	var eventType EventType
	err := s.visibleTo(ctx, vendorID).Where("name = ?", name).Order("is_shared ASC").Take(&eventType).Error
	if err == nil {
		return eventType, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EventType{}, err
	}

	eventType = EventType{VendorID: vendorID, Name: name}
	if err := s.db.WithContext(ctx).Create(&eventType).Error; err != nil {
		return EventType{}, err
	}
	return eventType, nil
}

// CreateColor registers a vendor-private color after hex validation.
func (s *Service) CreateColor(ctx context.Context, vendorID uint, name, hex string) (Color, error) {
	normalized, err := NormalizeHex(hex)
	if err != nil {
		return Color{}, err
	}
	color := Color{VendorID: vendorID, Name: name, Hex: normalized}
	if err := s.db.WithContext(ctx).Create(&color).Error; err != nil {
		return Color{}, err
	}
	return color, nil
}

// VerifyColorIDs confirms every id names a color the vendor may use.
func (s *Service) VerifyColorIDs(ctx context.Context, vendorID uint, ids []uint) error {
	return s.verifyIDs(ctx, vendorID, &Color{}, "color", ids)
}

// VerifyFlowerIDs confirms every id names a flower the vendor may use.
func (s *Service) VerifyFlowerIDs(ctx context.Context, vendorID uint, ids []uint) error {
	return s.verifyIDs(ctx, vendorID, &Flower{}, "flower", ids)
}

// VerifyArrangementIDs confirms every id names an arrangement the vendor may use.
func (s *Service) VerifyArrangementIDs(ctx context.Context, vendorID uint, ids []uint) error {
	return s.verifyIDs(ctx, vendorID, &Arrangement{}, "arrangement", ids)
}

func (s *Service) verifyIDs(ctx context.Context, vendorID uint, model any, entity string, ids []uint) error {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil
	}

	var count int64
	err := s.visibleTo(ctx, vendorID).Model(model).Where("id IN ?", unique).Count(&count).Error
	if err != nil {
		return err
	}
	if count != int64(len(unique)) {
		return fmt.Errorf("%w: invalid %s", ErrInvalidReference, entity)
	}
	return nil
}

// DefaultTemplate returns the vendor's default design template and its
// ordered slots, preferring a vendor-owned default over a shared one.
// It returns (nil, nil, nil) when no default exists.
func (s *Service) DefaultTemplate(ctx context.Context, vendorID uint) (*DesignTemplate, []DesignTemplateSlot, error) {
	var template DesignTemplate
	err := s.db.WithContext(ctx).
		Where("is_default = ?", true).
		Where("vendor_id = ? OR is_shared = ?", vendorID, true).
		Order(fmt.Sprintf("CASE WHEN vendor_id = %d THEN 0 ELSE 1 END", vendorID)).
		Take(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var slots []DesignTemplateSlot
	if err := s.db.WithContext(ctx).
		Where("template_id = ?", template.ID).
		Order("position ASC, section ASC, slot_no ASC").
		Find(&slots).Error; err != nil {
		return nil, nil, err
	}
	return &template, slots, nil
}
