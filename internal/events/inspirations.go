package events

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxInspirationsPerEvent = 20
	maxUploadBytes          = 5 << 20
)

// Upload is one binary image candidate from a multipart request.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// acceptable reports whether the upload passes the size and MIME checks.
// Invalid uploads are skipped silently, not rejected.
func (u Upload) acceptable() bool {
	if len(u.Data) == 0 || len(u.Data) > maxUploadBytes {
		return false
	}
	sniffed := http.DetectContentType(u.Data)
	return strings.HasPrefix(sniffed, "image/") || strings.HasPrefix(u.ContentType, "image/")
}

// AddInspirations records external URLs and uploaded images for an event.
// Malformed URLs reject the whole batch; invalid files are skipped. The
// 20-per-event cap is enforced before any storage write. Returns the
// created rows and the count of skipped files.
func (s *Service) AddInspirations(ctx context.Context, eventID uint, urls []string, uploads []Upload) ([]Inspiration, int, error) {
	for _, raw := range urls {
		if !validInspirationURL(raw) {
			return nil, 0, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
		}
	}

	accepted := make([]Upload, 0, len(uploads))
	for _, upload := range uploads {
		if upload.acceptable() {
			accepted = append(accepted, upload)
		}
	}
	skipped := len(uploads) - len(accepted)

	existing, err := s.CountInspirations(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}
	if existing+int64(len(urls))+int64(len(accepted)) > maxInspirationsPerEvent {
		return nil, 0, ErrInspirationLimit
	}
	if len(accepted) > 0 && s.images == nil {
		return nil, 0, newServiceError(opAddInspirations, "missing_image_store", errMissingImageStore)
	}

	now := s.clock().UTC()
	created := make([]Inspiration, 0, len(urls)+len(accepted))

	for _, upload := range accepted {
		name := uuid.NewString() + extensionFor(upload)
		stored, putErr := s.images.Put(ctx, name, upload.ContentType, upload.Data)
		if putErr != nil {
			s.logError(opAddInspirations, "upload_failed", putErr, zap.Uint("event_id", eventID))
			return nil, 0, newServiceError(opAddInspirations, "upload_failed", putErr)
		}
		row := Inspiration{EventID: eventID, Kind: InspirationKindUpload, SourceURL: stored.URL, CreatedAt: now}
		if createErr := s.db.WithContext(ctx).Create(&row).Error; createErr != nil {
			s.logError(opAddInspirations, "insert_failed", createErr, zap.Uint("event_id", eventID))
			return nil, 0, newServiceError(opAddInspirations, "insert_failed", createErr)
		}
		created = append(created, row)
	}

	for _, raw := range urls {
		row := Inspiration{EventID: eventID, Kind: InspirationKindURL, SourceURL: strings.TrimSpace(raw), CreatedAt: now}
		if createErr := s.db.WithContext(ctx).Create(&row).Error; createErr != nil {
			s.logError(opAddInspirations, "insert_failed", createErr, zap.Uint("event_id", eventID))
			return nil, 0, newServiceError(opAddInspirations, "insert_failed", createErr)
		}
		created = append(created, row)
	}

	return created, skipped, nil
}

// ListInspirations returns the event's inspirations newest-first.
func (s *Service) ListInspirations(ctx context.Context, eventID uint) ([]Inspiration, error) {
	var rows []Inspiration
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		s.logError(opListInspirations, "query_failed", err, zap.Uint("event_id", eventID))
		return nil, newServiceError(opListInspirations, "query_failed", err)
	}
	return rows, nil
}

// DeleteInspiration removes one inspiration by (event, id). A second delete
// of the same id reports not-found rather than success.
func (s *Service) DeleteInspiration(ctx context.Context, eventID, inspirationID uint) error {
	result := s.db.WithContext(ctx).
		Where("event_id = ? AND id = ?", eventID, inspirationID).
		Delete(&Inspiration{})
	if result.Error != nil {
		s.logError(opDeleteInspiration, "delete_failed", result.Error, zap.Uint("event_id", eventID))
		return newServiceError(opDeleteInspiration, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInspirationNotFound
	}
	return nil
}

// CountInspirations counts stored inspirations for an event.
func (s *Service) CountInspirations(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&Inspiration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error; err != nil {
		s.logError(opCountInspirations, "query_failed", err, zap.Uint("event_id", eventID))
		return 0, newServiceError(opCountInspirations, "query_failed", err)
	}
	return count, nil
}

func validInspirationURL(raw string) bool {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func extensionFor(upload Upload) string {
	switch {
	case strings.HasSuffix(strings.ToLower(upload.FileName), ".png"),
		strings.Contains(upload.ContentType, "png"):
		return ".png"
	case strings.HasSuffix(strings.ToLower(upload.FileName), ".webp"),
		strings.Contains(upload.ContentType, "webp"):
		return ".webp"
	case strings.HasSuffix(strings.ToLower(upload.FileName), ".gif"),
		strings.Contains(upload.ContentType, "gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}
