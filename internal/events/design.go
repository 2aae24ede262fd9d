package events

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DesignInput carries a full or partial design save. Nil fields keep the
// stored value; the auto-save path sends whatever the draft has so far.
type DesignInput struct {
	EventTypeID *uint
	Colors      *ColorScheme
	DesignCost  *float64
}

// SaveDesign persists the design snapshot for an event as one atomic
// conditional write: the row is keyed by a uniqueness constraint on
// event_id and concurrent savers resolve through ON CONFLICT rather than
// check-then-act. Every save appends a revision row and bumps the
// revision counter inside the same transaction.
func (s *Service) SaveDesign(ctx context.Context, eventID uint, input DesignInput) (EventDesign, ColorScheme, error) {
	now := s.clock().UTC()

	row := EventDesign{
		EventID:   eventID,
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	assignments := map[string]any{
		"revision":   gorm.Expr("revision + 1"),
		"updated_at": now,
	}
	if input.EventTypeID != nil {
		row.EventTypeID = *input.EventTypeID
		assignments["event_type_id"] = *input.EventTypeID
	}
	if input.Colors != nil {
		encoded, err := json.Marshal(input.Colors)
		if err != nil {
			return EventDesign{}, ColorScheme{}, newServiceError(opSaveDesign, "encode_colors_failed", err)
		}
		row.ColorsJSON = string(encoded)
		assignments["colors_json"] = string(encoded)
	}
	if input.DesignCost != nil {
		row.DesignCost = *input.DesignCost
		assignments["design_cost"] = *input.DesignCost
	}

	var saved EventDesign
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Take(&saved).Error; err != nil {
			return err
		}
		revision := EventDesignRevision{
			EventID:    eventID,
			Revision:   saved.Revision,
			ColorsJSON: saved.ColorsJSON,
			DesignCost: saved.DesignCost,
			CreatedAt:  now,
		}
		return tx.Create(&revision).Error
	})
	if txErr != nil {
		s.logError(opSaveDesign, "save_failed", txErr, zap.Uint("event_id", eventID))
		return EventDesign{}, ColorScheme{}, newServiceError(opSaveDesign, "save_failed", txErr)
	}

	return saved, decodeScheme(saved.ColorsJSON), nil
}

// GetDesign loads the current design snapshot for an event.
func (s *Service) GetDesign(ctx context.Context, eventID uint) (EventDesign, ColorScheme, error) {
	var design EventDesign
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Take(&design).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EventDesign{}, ColorScheme{}, ErrDesignNotFound
	}
	if err != nil {
		s.logError(opGetDesign, "query_failed", err, zap.Uint("event_id", eventID))
		return EventDesign{}, ColorScheme{}, newServiceError(opGetDesign, "query_failed", err)
	}
	return design, decodeScheme(design.ColorsJSON), nil
}

// SaveFlowerPreferences upserts the event's flower selection blob keyed by
// the event id.
func (s *Service) SaveFlowerPreferences(ctx context.Context, eventID uint, flowerIDs []uint, notes string) (FlowerPreference, []uint, error) {
	encoded, err := json.Marshal(flowerIDs)
	if err != nil {
		return FlowerPreference{}, nil, newServiceError(opSaveFlowers, "encode_failed", err)
	}

	now := s.clock().UTC()
	row := FlowerPreference{
		EventID:       eventID,
		FlowerIDsJSON: string(encoded),
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"flower_ids_json": string(encoded),
				"notes":           notes,
				"updated_at":      now,
			}),
		}).
		Create(&row).Error
	if err != nil {
		s.logError(opSaveFlowers, "upsert_failed", err, zap.Uint("event_id", eventID))
		return FlowerPreference{}, nil, newServiceError(opSaveFlowers, "upsert_failed", err)
	}

	var saved FlowerPreference
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Take(&saved).Error; err != nil {
		s.logError(opSaveFlowers, "reload_failed", err, zap.Uint("event_id", eventID))
		return FlowerPreference{}, nil, newServiceError(opSaveFlowers, "reload_failed", err)
	}
	return saved, flowerIDs, nil
}

func decodeScheme(raw string) ColorScheme {
	scheme := ColorScheme{}
	if raw == "" {
		return scheme
	}
	// Stored values were produced by SaveDesign; a decode failure means an
	// empty scheme, not a request error.
	_ = json.Unmarshal([]byte(raw), &scheme)
	return scheme
}
