package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"github.com/petalworks/bloom/backend/internal/events"
	"github.com/petalworks/bloom/backend/internal/inquiry"
	"github.com/petalworks/bloom/backend/internal/vendors"
	"go.uber.org/zap"
)

// Every response uses one discriminated envelope: {success:true, data} or
// {success:false, error:{code, message[, fields]}}.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeInvalidReference = "INVALID_REFERENCE"
	codeLimitExceeded    = "LIMIT_EXCEEDED"
	codeUnauthorized     = "UNAUTHORIZED"
	codeInternal         = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"success": false, "error": errorBody{Code: code, Message: message}})
}

func respondFieldErrors(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": errorBody{
			Code:    codeValidation,
			Message: "validation failed",
			Fields:  fields,
		},
	})
}

// respondBindingError converts gin binding failures into per-field messages.
func respondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			name := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]
			fields[name] = bindingMessage(fieldErr)
		}
		respondFieldErrors(c, fields)
		return
	}
	respondError(c, http.StatusBadRequest, codeValidation, "malformed request body")
}

func bindingMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must have at most %s items or characters", fieldErr.Param())
	case "min":
		return fmt.Sprintf("must have at least %s items or characters", fieldErr.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	default:
		return "is invalid"
	}
}

// respondServiceError maps the error taxonomy onto statuses: validation
// 400, not-found 404, cross-tenant reference 400, everything else 500 with
// a generic message. Nothing propagates unhandled.
func (h *httpHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, events.ErrEventNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, "Event not found")
	case errors.Is(err, events.ErrDesignNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, "Design not found")
	case errors.Is(err, events.ErrInspirationNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, "Inspiration not found")
	case errors.Is(err, events.ErrInspirationLimit):
		respondError(c, http.StatusBadRequest, codeLimitExceeded, "inspiration limit of 20 reached")
	case errors.Is(err, events.ErrInvalidURL):
		respondError(c, http.StatusBadRequest, codeValidation, "one or more inspiration urls are malformed")
	case errors.Is(err, events.ErrInvalidSection):
		respondError(c, http.StatusBadRequest, codeValidation, "section must be Personal, Ceremony, Reception, or Suggestion")
	case errors.Is(err, catalog.ErrInvalidReference):
		respondError(c, http.StatusBadRequest, codeInvalidReference, referenceMessage(err))
	case errors.Is(err, vendors.ErrNotFound), errors.Is(err, inquiry.ErrVendorNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, "Vendor not found")
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func referenceMessage(err error) string {
	message := err.Error()
	if idx := strings.LastIndex(message, ": "); idx >= 0 {
		return message[idx+2:]
	}
	return "invalid reference"
}
