package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidHex indicates a color value that is not a #RRGGBB hex string.
var ErrInvalidHex = errors.New("catalog: invalid hex color")

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// NormalizeHex validates a #RRGGBB color string and upper-cases it.
func NormalizeHex(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !hexPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, raw)
	}
	return strings.ToUpper(trimmed), nil
}

// Color is a catalog swatch, vendor-owned or shared across all vendors.
type Color struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	VendorID  uint      `gorm:"column:vendor_id;index;not null;default:0" json:"vendorId"`
	IsShared  bool      `gorm:"column:is_shared;not null;default:false" json:"isShared"`
	Name      string    `gorm:"column:name;size:190;not null" json:"name"`
	Hex       string    `gorm:"column:hex;size:7;not null" json:"hex"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Color) TableName() string { return "colors" }

// FlowerCategory groups flowers, e.g. roses or greenery.
type FlowerCategory struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	VendorID  uint      `gorm:"column:vendor_id;index;not null;default:0" json:"vendorId"`
	IsShared  bool      `gorm:"column:is_shared;not null;default:false" json:"isShared"`
	Name      string    `gorm:"column:name;size:190;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (FlowerCategory) TableName() string { return "flower_categories" }

// Flower is one stem variety within a category.
type Flower struct {
	ID         uint            `gorm:"column:id;primaryKey" json:"id"`
	VendorID   uint            `gorm:"column:vendor_id;index;not null;default:0" json:"vendorId"`
	IsShared   bool            `gorm:"column:is_shared;not null;default:false" json:"isShared"`
	CategoryID uint            `gorm:"column:category_id;index;not null" json:"categoryId"`
	Category   *FlowerCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name       string          `gorm:"column:name;size:190;not null" json:"name"`
	StemPrice  float64         `gorm:"column:stem_price;not null;default:0" json:"stemPrice"`
	ImageURL   string          `gorm:"column:image_url;size:500" json:"imageUrl"`
	CreatedAt  time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (Flower) TableName() string { return "flowers" }

// ArrangementType classifies arrangements, e.g. bouquet or centerpiece.
type ArrangementType struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	VendorID  uint      `gorm:"column:vendor_id;index;not null;default:0" json:"vendorId"`
	IsShared  bool      `gorm:"column:is_shared;not null;default:false" json:"isShared"`
	Name      string    `gorm:"column:name;size:190;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (ArrangementType) TableName() string { return "arrangement_types" }

// Arrangement is a sellable floral piece of a given type.
type Arrangement struct {
	ID          uint             `gorm:"column:id;primaryKey" json:"id"`
	VendorID    uint             `gorm:"column:vendor_id;index;not null;default:0" json:"vendorId"`
	IsShared    bool             `gorm:"column:is_shared;not null;default:false" json:"isShared"`
	TypeID      uint             `gorm:"column:type_id;index;not null" json:"typeId"`
	Type        *ArrangementType `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Name        string           `gorm:"column:name;size:190;not null" json:"name"`
	Description string           `gorm:"column:description;type:text" json:"description"`
	Price       float64          `gorm:"column:price;not null;default:0" json:"price"`
	ImageURL    string           `gorm:"column:image_url;size:500" json:"imageUrl"`
	CreatedAt   time.Time        `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"column:updated_at" json:"updatedAt"`
}

func (Arrangement) TableName() string { return "arrangements" }

// EventType labels an engagement, e.g. Wedding or General Inquiry.
type EventType struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	VendorID  uint      `gorm:"column:vendor_id;index;not null;default:0" json:"vendorId"`
	IsShared  bool      `gorm:"column:is_shared;not null;default:false" json:"isShared"`
	Name      string    `gorm:"column:name;size:190;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (EventType) TableName() string { return "event_types" }

// DesignTemplate is a reusable default slot layout copied into new events.
type DesignTemplate struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	VendorID  uint      `gorm:"column:vendor_id;index;not null;default:0" json:"vendorId"`
	IsShared  bool      `gorm:"column:is_shared;not null;default:false" json:"isShared"`
	Name      string    `gorm:"column:name;size:190;not null" json:"name"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false" json:"isDefault"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (DesignTemplate) TableName() string { return "design_templates" }

// DesignTemplateSlot is one ordered slot entry of a template layout.
type DesignTemplateSlot struct {
	ID            uint   `gorm:"column:id;primaryKey" json:"id"`
	TemplateID    uint   `gorm:"column:template_id;index;not null" json:"templateId"`
	Section       string `gorm:"column:section;size:32;not null" json:"section"`
	SlotNo        int    `gorm:"column:slot_no;not null;default:1" json:"slotNo"`
	SlotName      string `gorm:"column:slot_name;size:190" json:"slotName"`
	ArrangementID uint   `gorm:"column:arrangement_id;not null" json:"arrangementId"`
	Quantity      int    `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Position      int    `gorm:"column:position;not null;default:0" json:"position"`
}

func (DesignTemplateSlot) TableName() string { return "design_template_slots" }
