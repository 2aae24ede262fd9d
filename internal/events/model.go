package events

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Section groups arrangement slots within an event design.
type Section string

const (
	SectionPersonal   Section = "Personal"
	SectionCeremony   Section = "Ceremony"
	SectionReception  Section = "Reception"
	SectionSuggestion Section = "Suggestion"
)

// ErrInvalidSection indicates a section value outside the known set.
var ErrInvalidSection = errors.New("events: invalid section")

// ParseSection validates a raw section value.
func ParseSection(raw string) (Section, error) {
	switch strings.TrimSpace(raw) {
	case string(SectionPersonal):
		return SectionPersonal, nil
	case string(SectionCeremony):
		return SectionCeremony, nil
	case string(SectionReception):
		return SectionReception, nil
	case string(SectionSuggestion):
		return SectionSuggestion, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSection, raw)
	}
}

// sectionOrder fixes the display order of sections in listings.
func sectionOrder() string {
	return `CASE section
		WHEN 'Personal' THEN 0
		WHEN 'Ceremony' THEN 1
		WHEN 'Reception' THEN 2
		ELSE 3 END, slot_no ASC`
}

// StatusInquiry is the status every event starts in. Later stages are not
// modeled here; transitions are not validated.
const StatusInquiry = "Inquiry"

// Event is one client engagement with a vendor.
type Event struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	ClientID    uint      `gorm:"column:client_id;index;not null" json:"clientId"`
	VendorID    uint      `gorm:"column:vendor_id;index;not null" json:"vendorId"`
	EventTypeID uint      `gorm:"column:event_type_id;not null" json:"eventTypeId"`
	WeddingDate time.Time `gorm:"column:wedding_date" json:"weddingDate"`
	Status      string    `gorm:"column:status;size:32;not null;default:'Inquiry'" json:"status"`
	Notes       string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Event) TableName() string { return "events" }

// EventArrangement assigns an arrangement to one slot of a section. At most
// one arrangement exists per (event, section, slot).
type EventArrangement struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID       uint      `gorm:"column:event_id;not null;uniqueIndex:idx_event_section_slot,priority:1" json:"eventId"`
	Section       string    `gorm:"column:section;size:32;not null;uniqueIndex:idx_event_section_slot,priority:2" json:"section"`
	SlotNo        int       `gorm:"column:slot_no;not null;default:1;uniqueIndex:idx_event_section_slot,priority:3" json:"slotNo"`
	SlotName      string    `gorm:"column:slot_name;size:190" json:"slotName"`
	ArrangementID uint      `gorm:"column:arrangement_id;not null" json:"arrangementId"`
	Quantity      int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (EventArrangement) TableName() string { return "event_arrangements" }

// ColorScheme is the canonical color selection for an event design:
// structured id arrays plus free-form custom hex values.
type ColorScheme struct {
	Primary   []uint   `json:"primary"`
	Secondary []uint   `json:"secondary"`
	Accent    []uint   `json:"accent"`
	Custom    []string `json:"custom"`
}

// AllIDs returns every referenced catalog color id.
func (s ColorScheme) AllIDs() []uint {
	ids := make([]uint, 0, len(s.Primary)+len(s.Secondary)+len(s.Accent))
	ids = append(ids, s.Primary...)
	ids = append(ids, s.Secondary...)
	ids = append(ids, s.Accent...)
	return ids
}

// EventDesign is the current design snapshot for an event. One row per
// event, enforced by a uniqueness constraint; writes are single atomic
// upserts on that key.
type EventDesign struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID     uint      `gorm:"column:event_id;uniqueIndex;not null" json:"eventId"`
	EventTypeID uint      `gorm:"column:event_type_id;not null;default:0" json:"eventTypeId"`
	ColorsJSON  string    `gorm:"column:colors_json;type:text;not null;default:''" json:"-"`
	DesignCost  float64   `gorm:"column:design_cost;not null;default:0" json:"designCost"`
	Revision    int64     `gorm:"column:revision;not null;default:1" json:"revision"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (EventDesign) TableName() string { return "event_designs" }

// EventDesignRevision is the append-only history of design saves.
type EventDesignRevision struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID    uint      `gorm:"column:event_id;index;not null" json:"eventId"`
	Revision   int64     `gorm:"column:revision;not null" json:"revision"`
	ColorsJSON string    `gorm:"column:colors_json;type:text;not null;default:''" json:"-"`
	DesignCost float64   `gorm:"column:design_cost;not null;default:0" json:"designCost"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (EventDesignRevision) TableName() string { return "event_design_revisions" }

// FlowerPreference stores an event's flower selection as one JSON blob.
type FlowerPreference struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID       uint      `gorm:"column:event_id;uniqueIndex;not null" json:"eventId"`
	FlowerIDsJSON string    `gorm:"column:flower_ids_json;type:text;not null;default:''" json:"-"`
	Notes         string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (FlowerPreference) TableName() string { return "flower_preferences" }

// Inspiration kinds.
const (
	InspirationKindUpload = "upload"
	InspirationKindURL    = "url"
)

// Inspiration is one uploaded or URL-referenced image tied to an event.
// Immutable once created except for deletion.
type Inspiration struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID   uint      `gorm:"column:event_id;index;not null" json:"eventId"`
	Kind      string    `gorm:"column:kind;size:16;not null" json:"kind"`
	SourceURL string    `gorm:"column:source_url;size:1000;not null" json:"sourceUrl"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Inspiration) TableName() string { return "inspirations" }

// Chat is the conversation record opened alongside a new inquiry.
type Chat struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID   uint      `gorm:"column:event_id;uniqueIndex;not null" json:"eventId"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Chat) TableName() string { return "chats" }
