package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var errMissingBaseURL = errors.New("draft: base url is required")

// APISaverConfig configures an APISaver.
type APISaverConfig struct {
	BaseURL    string
	EventID    uint
	HTTPClient *http.Client
}

// APISaver flushes draft snapshots to the design auto-save endpoint.
type APISaver struct {
	baseURL string
	eventID uint
	client  *http.Client
}

// NewAPISaver constructs an APISaver.
func NewAPISaver(cfg APISaverConfig) (*APISaver, error) {
	if cfg.BaseURL == "" {
		return nil, errMissingBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &APISaver{baseURL: cfg.BaseURL, eventID: cfg.EventID, client: client}, nil
}

// Save issues PATCH /api/events/{id}/design/auto-save with the snapshot.
func (s *APISaver) Save(ctx context.Context, snapshot map[string]any) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/events/%d/design/auto-save", s.baseURL, s.eventID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("draft: auto-save endpoint returned %d", response.StatusCode)
	}
	return nil
}
