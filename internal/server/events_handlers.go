package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"github.com/petalworks/bloom/backend/internal/events"
)

// eventForRequest resolves the :eventID path parameter to an existing
// event, or writes the error response and reports false.
func (h *httpHandler) eventForRequest(c *gin.Context) (events.Event, bool) {
	eventID, ok := pathID(c, "eventID", "event id")
	if !ok {
		return events.Event{}, false
	}
	event, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		h.respondServiceError(c, err)
		return events.Event{}, false
	}
	return event, true
}

// --- arrangements ---

type arrangementPayload struct {
	ArrangementID uint   `json:"arrangementId" binding:"required"`
	Section       string `json:"section" binding:"required"`
	SlotNo        int    `json:"slotNo" binding:"omitempty,gte=1"`
	SlotName      string `json:"slotName" binding:"omitempty,max=190"`
	Quantity      int    `json:"quantity" binding:"omitempty,gte=1"`
}

func (h *httpHandler) handleListArrangements(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	rows, err := h.events.ListArrangements(c.Request.Context(), event.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"arrangements": groupBySection(rows)})
}

func (h *httpHandler) handleUpsertArrangement(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	var payload arrangementPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	section, err := events.ParseSection(payload.Section)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if err := h.catalog.VerifyArrangementIDs(c.Request.Context(), event.VendorID, []uint{payload.ArrangementID}); err != nil {
		h.respondServiceError(c, err)
		return
	}

	saved, err := h.events.UpsertArrangement(c.Request.Context(), event.ID, events.ArrangementInput{
		Section:       section,
		SlotNo:        payload.SlotNo,
		SlotName:      payload.SlotName,
		ArrangementID: payload.ArrangementID,
		Quantity:      payload.Quantity,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"arrangement": saved,
		"savedAt":     time.Now().UTC(),
	})
}

type deleteArrangementPayload struct {
	ArrangementID uint   `json:"arrangementId" binding:"required"`
	Section       string `json:"section" binding:"required"`
	SlotNo        *int   `json:"slotNo" binding:"omitempty,gte=1"`
}

func (h *httpHandler) handleDeleteArrangement(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	var payload deleteArrangementPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	section, err := events.ParseSection(payload.Section)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	deleted, err := h.events.DeleteArrangement(c.Request.Context(), event.ID, payload.ArrangementID, section, payload.SlotNo)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	// Zero matched rows is a soft no-op, not an error.
	respondData(c, http.StatusOK, gin.H{"deleted": deleted})
}

type bulkEntryPayload struct {
	ArrangementID uint   `json:"arrangementId" binding:"required"`
	Section       string `json:"section" binding:"required"`
	SlotNo        int    `json:"slotNo" binding:"omitempty,gte=1"`
	SlotName      string `json:"slotName" binding:"omitempty,max=190"`
	Quantity      int    `json:"quantity" binding:"omitempty,gte=1"`
	Action        string `json:"action" binding:"omitempty,oneof=upsert delete"`
}

type bulkUpdatePayload struct {
	Updates []bulkEntryPayload `json:"updates" binding:"required,min=1,max=50,dive"`
}

func (h *httpHandler) handleBulkUpdateArrangements(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	var payload bulkUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}

	entries := make([]events.BulkEntry, 0, len(payload.Updates))
	upsertIDs := make([]uint, 0, len(payload.Updates))
	for _, entry := range payload.Updates {
		section, err := events.ParseSection(entry.Section)
		if err != nil {
			h.respondServiceError(c, err)
			return
		}
		if entry.Action != events.ActionDelete {
			upsertIDs = append(upsertIDs, entry.ArrangementID)
		}
		entries = append(entries, events.BulkEntry{
			ArrangementID: entry.ArrangementID,
			Section:       section,
			SlotNo:        entry.SlotNo,
			SlotName:      entry.SlotName,
			Quantity:      entry.Quantity,
			Action:        entry.Action,
		})
	}
	if err := h.catalog.VerifyArrangementIDs(c.Request.Context(), event.VendorID, upsertIDs); err != nil {
		h.respondServiceError(c, err)
		return
	}

	results, err := h.events.BulkUpdateArrangements(c.Request.Context(), event.ID, entries)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"results": results})
}

func groupBySection(rows []events.EventArrangement) map[string][]events.EventArrangement {
	grouped := make(map[string][]events.EventArrangement)
	for _, row := range rows {
		grouped[row.Section] = append(grouped[row.Section], row)
	}
	return grouped
}

// --- colors and design ---

type colorSchemePayload struct {
	Primary   []uint   `json:"primary" binding:"omitempty,max=10"`
	Secondary []uint   `json:"secondary" binding:"omitempty,max=10"`
	Accent    []uint   `json:"accent" binding:"omitempty,max=10"`
	Custom    []string `json:"custom" binding:"omitempty,max=10"`
}

func (p colorSchemePayload) toScheme() (events.ColorScheme, map[string]string) {
	scheme := events.ColorScheme{
		Primary:   p.Primary,
		Secondary: p.Secondary,
		Accent:    p.Accent,
	}
	fields := map[string]string{}
	for i, raw := range p.Custom {
		normalized, err := catalog.NormalizeHex(raw)
		if err != nil {
			fields[fmt.Sprintf("colors.custom[%d]", i)] = "must match #RRGGBB"
			continue
		}
		scheme.Custom = append(scheme.Custom, normalized)
	}
	if len(fields) > 0 {
		return events.ColorScheme{}, fields
	}
	return scheme, nil
}

type colorsUpdatePayload struct {
	Colors *colorSchemePayload `json:"colors" binding:"required"`
}

func (h *httpHandler) handleGetColors(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	design, scheme, err := h.events.GetDesign(c.Request.Context(), event.ID)
	if err != nil && !errors.Is(err, events.ErrDesignNotFound) {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"colors":   scheme,
		"revision": design.Revision,
	})
}

func (h *httpHandler) handleSaveColors(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	var payload colorsUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	scheme, fields := payload.Colors.toScheme()
	if fields != nil {
		respondFieldErrors(c, fields)
		return
	}
	if err := h.catalog.VerifyColorIDs(c.Request.Context(), event.VendorID, scheme.AllIDs()); err != nil {
		h.respondServiceError(c, err)
		return
	}

	design, saved, err := h.events.SaveDesign(c.Request.Context(), event.ID, events.DesignInput{Colors: &scheme})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"colors":   saved,
		"revision": design.Revision,
		"savedAt":  design.UpdatedAt,
	})
}

type designPayload struct {
	EventTypeID *uint               `json:"eventTypeId" binding:"omitempty,gte=1"`
	Colors      *colorSchemePayload `json:"colors"`
	DesignCost  *float64            `json:"designCost" binding:"omitempty,gte=0"`
}

func (h *httpHandler) handleGetDesign(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	design, scheme, err := h.events.GetDesign(c.Request.Context(), event.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"design": design, "colors": scheme})
}

func (h *httpHandler) handleSaveDesign(c *gin.Context) {
	h.saveDesign(c, true)
}

// handleAutoSaveDesign accepts partial payloads: the wizard flushes
// whatever the draft holds so far.
func (h *httpHandler) handleAutoSaveDesign(c *gin.Context) {
	h.saveDesign(c, false)
}

func (h *httpHandler) saveDesign(c *gin.Context, colorsRequired bool) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	var payload designPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	if colorsRequired && payload.Colors == nil {
		respondFieldErrors(c, map[string]string{"colors": "is required"})
		return
	}

	input := events.DesignInput{
		EventTypeID: payload.EventTypeID,
		DesignCost:  payload.DesignCost,
	}
	if payload.Colors != nil {
		scheme, fields := payload.Colors.toScheme()
		if fields != nil {
			respondFieldErrors(c, fields)
			return
		}
		if err := h.catalog.VerifyColorIDs(c.Request.Context(), event.VendorID, scheme.AllIDs()); err != nil {
			h.respondServiceError(c, err)
			return
		}
		input.Colors = &scheme
	}

	design, scheme, err := h.events.SaveDesign(c.Request.Context(), event.ID, input)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"design":  design,
		"colors":  scheme,
		"savedAt": design.UpdatedAt,
	})
}

// --- flowers ---

type flowersPayload struct {
	FlowerIDs []uint `json:"flowerIds" binding:"required,max=30"`
	Notes     string `json:"notes" binding:"omitempty,max=2000"`
}

func (h *httpHandler) handleSaveFlowers(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	var payload flowersPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	if err := h.catalog.VerifyFlowerIDs(c.Request.Context(), event.VendorID, payload.FlowerIDs); err != nil {
		h.respondServiceError(c, err)
		return
	}

	saved, flowerIDs, err := h.events.SaveFlowerPreferences(c.Request.Context(), event.ID, payload.FlowerIDs, payload.Notes)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"flowerIds": flowerIDs,
		"notes":     saved.Notes,
		"savedAt":   saved.UpdatedAt,
	})
}

// --- inspirations ---

type inspirationURLsPayload struct {
	URLs []string `json:"urls" binding:"omitempty,max=20"`
}

func (h *httpHandler) handleListInspirations(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	rows, err := h.events.ListInspirations(c.Request.Context(), event.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"inspirations": rows, "count": len(rows)})
}

func (h *httpHandler) handleAddInspirations(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}

	urls, uploads, ok := h.readInspirationPayload(c)
	if !ok {
		return
	}

	created, skipped, err := h.events.AddInspirations(c.Request.Context(), event.ID, urls, uploads)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{
		"inspirations": created,
		"skippedFiles": skipped,
	})
}

// readInspirationPayload accepts either a JSON body of external URLs or a
// multipart form mixing file uploads with a JSON-encoded "urls" field.
func (h *httpHandler) readInspirationPayload(c *gin.Context) ([]string, []events.Upload, bool) {
	contentType := c.ContentType()
	if contentType != "multipart/form-data" {
		var payload inspirationURLsPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondBindingError(c, err)
			return nil, nil, false
		}
		return payload.URLs, nil, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "malformed multipart form")
		return nil, nil, false
	}

	var urls []string
	if rawURLs := c.PostForm("urls"); rawURLs != "" {
		if err := json.Unmarshal([]byte(rawURLs), &urls); err != nil {
			respondFieldErrors(c, map[string]string{"urls": "must be a JSON array of urls"})
			return nil, nil, false
		}
	}

	var uploads []events.Upload
	for _, header := range form.File["files"] {
		file, openErr := header.Open()
		if openErr != nil {
			continue
		}
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			continue
		}
		uploads = append(uploads, events.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return urls, uploads, true
}

func (h *httpHandler) handleDeleteInspiration(c *gin.Context) {
	event, ok := h.eventForRequest(c)
	if !ok {
		return
	}
	inspirationID, ok := pathID(c, "inspirationID", "inspiration id")
	if !ok {
		return
	}
	if err := h.events.DeleteInspiration(c.Request.Context(), event.ID, inspirationID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
