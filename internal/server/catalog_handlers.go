package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleVendorBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		respondFieldErrors(c, map[string]string{"slug": "is required"})
		return
	}

	vendor, err := h.vendors.BySlug(c.Request.Context(), slug)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"vendor": vendor})
}

// vendorForRequest resolves the :vendorID path parameter to an existing
// vendor, or writes the error response and reports false.
func (h *httpHandler) vendorForRequest(c *gin.Context) (uint, bool) {
	vendorID, ok := pathID(c, "vendorID", "vendor id")
	if !ok {
		return 0, false
	}
	if _, err := h.vendors.ByID(c.Request.Context(), vendorID); err != nil {
		h.respondServiceError(c, err)
		return 0, false
	}
	return vendorID, true
}

func (h *httpHandler) handleVendorColors(c *gin.Context) {
	vendorID, ok := h.vendorForRequest(c)
	if !ok {
		return
	}
	colors, err := h.catalog.ColorsForVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"colors": colors})
}

func (h *httpHandler) handleVendorFlowers(c *gin.Context) {
	vendorID, ok := h.vendorForRequest(c)
	if !ok {
		return
	}
	flowers, err := h.catalog.FlowersForVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"flowers": flowers})
}

func (h *httpHandler) handleVendorArrangements(c *gin.Context) {
	vendorID, ok := h.vendorForRequest(c)
	if !ok {
		return
	}
	arrangements, err := h.catalog.ArrangementsForVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"arrangements": arrangements})
}

func (h *httpHandler) handleVendorArrangementTypes(c *gin.Context) {
	vendorID, ok := h.vendorForRequest(c)
	if !ok {
		return
	}
	types, err := h.catalog.ArrangementTypesForVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"arrangementTypes": types})
}

func (h *httpHandler) handleVendorFlowerCategories(c *gin.Context) {
	vendorID, ok := h.vendorForRequest(c)
	if !ok {
		return
	}
	categories, err := h.catalog.FlowerCategoriesForVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"flowerCategories": categories})
}

func (h *httpHandler) handleVendorEventTypes(c *gin.Context) {
	vendorID, ok := h.vendorForRequest(c)
	if !ok {
		return
	}
	eventTypes, err := h.catalog.EventTypesForVendor(c.Request.Context(), vendorID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"eventTypes": eventTypes})
}
