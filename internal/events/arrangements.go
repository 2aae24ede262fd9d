package events

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActionDelete removes matching slot rows; any other action upserts.
const ActionDelete = "delete"

var slotConflictColumns = []clause.Column{
	{Name: "event_id"},
	{Name: "section"},
	{Name: "slot_no"},
}

// ArrangementInput describes one slot assignment.
type ArrangementInput struct {
	Section       Section
	SlotNo        int
	SlotName      string
	ArrangementID uint
	Quantity      int
}

func (in *ArrangementInput) applyDefaults() {
	if in.SlotNo <= 0 {
		in.SlotNo = 1
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
}

// UpsertArrangement creates or replaces the slot assignment keyed by
// (event, section, slot). Retrying with an identical payload is a no-op.
func (s *Service) UpsertArrangement(ctx context.Context, eventID uint, input ArrangementInput) (EventArrangement, error) {
	input.applyDefaults()
	now := s.clock().UTC()
	row := EventArrangement{
		EventID:       eventID,
		Section:       string(input.Section),
		SlotNo:        input.SlotNo,
		SlotName:      input.SlotName,
		ArrangementID: input.ArrangementID,
		Quantity:      input.Quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   slotConflictColumns,
			DoUpdates: clause.AssignmentColumns([]string{"arrangement_id", "slot_name", "quantity", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		s.logError(opUpsertArrangement, "upsert_failed", err, zap.Uint("event_id", eventID))
		return EventArrangement{}, newServiceError(opUpsertArrangement, "upsert_failed", err)
	}

	var saved EventArrangement
	err = s.db.WithContext(ctx).
		Where("event_id = ? AND section = ? AND slot_no = ?", eventID, string(input.Section), input.SlotNo).
		Take(&saved).Error
	if err != nil {
		s.logError(opUpsertArrangement, "reload_failed", err, zap.Uint("event_id", eventID))
		return EventArrangement{}, newServiceError(opUpsertArrangement, "reload_failed", err)
	}
	return saved, nil
}

// ListArrangements returns the event's slots in section display order.
func (s *Service) ListArrangements(ctx context.Context, eventID uint) ([]EventArrangement, error) {
	var rows []EventArrangement
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order(sectionOrder()).
		Find(&rows).Error; err != nil {
		s.logError(opListArrangements, "query_failed", err, zap.Uint("event_id", eventID))
		return nil, newServiceError(opListArrangements, "query_failed", err)
	}
	return rows, nil
}

// DeleteArrangement removes slot rows matching (event, arrangement, section)
// and optionally a specific slot number. Zero matched rows is a soft no-op,
// reported through the count, never an error.
func (s *Service) DeleteArrangement(ctx context.Context, eventID, arrangementID uint, section Section, slotNo *int) (int64, error) {
	query := s.db.WithContext(ctx).
		Where("event_id = ? AND arrangement_id = ? AND section = ?", eventID, arrangementID, string(section))
	if slotNo != nil {
		query = query.Where("slot_no = ?", *slotNo)
	}

	result := query.Delete(&EventArrangement{})
	if result.Error != nil {
		s.logError(opDeleteArrangement, "delete_failed", result.Error, zap.Uint("event_id", eventID))
		return 0, newServiceError(opDeleteArrangement, "delete_failed", result.Error)
	}
	return result.RowsAffected, nil
}

// BulkEntry is one submission-ordered entry of a bulk update.
type BulkEntry struct {
	ArrangementID uint
	Section       Section
	SlotNo        int
	SlotName      string
	Quantity      int
	Action        string
}

// BulkOutcome reports the applied action for one entry.
type BulkOutcome struct {
	Action        string `json:"action"`
	Section       string `json:"section"`
	SlotNo        int    `json:"slotNo"`
	ArrangementID uint   `json:"arrangementId"`
	Affected      int64  `json:"affected"`
}

// BulkUpdateArrangements applies every entry inside one transaction: either
// all entries apply or none do. Outcomes follow submission order.
func (s *Service) BulkUpdateArrangements(ctx context.Context, eventID uint, entries []BulkEntry) ([]BulkOutcome, error) {
	outcomes := make([]BulkOutcome, 0, len(entries))

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.Action == ActionDelete {
				query := tx.Where(
					"event_id = ? AND arrangement_id = ? AND section = ?",
					eventID, entry.ArrangementID, string(entry.Section),
				)
				if entry.SlotNo > 0 {
					query = query.Where("slot_no = ?", entry.SlotNo)
				}
				result := query.Delete(&EventArrangement{})
				if result.Error != nil {
					return result.Error
				}
				outcomes = append(outcomes, BulkOutcome{
					Action:        "deleted",
					Section:       string(entry.Section),
					SlotNo:        entry.SlotNo,
					ArrangementID: entry.ArrangementID,
					Affected:      result.RowsAffected,
				})
				continue
			}

			input := ArrangementInput{
				Section:       entry.Section,
				SlotNo:        entry.SlotNo,
				SlotName:      entry.SlotName,
				ArrangementID: entry.ArrangementID,
				Quantity:      entry.Quantity,
			}
			input.applyDefaults()
			now := s.clock().UTC()
			row := EventArrangement{
				EventID:       eventID,
				Section:       string(input.Section),
				SlotNo:        input.SlotNo,
				SlotName:      input.SlotName,
				ArrangementID: input.ArrangementID,
				Quantity:      input.Quantity,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   slotConflictColumns,
				DoUpdates: clause.AssignmentColumns([]string{"arrangement_id", "slot_name", "quantity", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
			outcomes = append(outcomes, BulkOutcome{
				Action:        "upserted",
				Section:       string(input.Section),
				SlotNo:        input.SlotNo,
				ArrangementID: input.ArrangementID,
				Affected:      1,
			})
		}
		return nil
	})

	if txErr != nil {
		s.logError(opBulkUpdate, "transaction_failed", txErr, zap.Uint("event_id", eventID))
		return nil, newServiceError(opBulkUpdate, "transaction_failed", txErr)
	}
	return outcomes, nil
}
