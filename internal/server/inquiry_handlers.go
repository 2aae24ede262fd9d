package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petalworks/bloom/backend/internal/inquiry"
)

type inquiryPayload struct {
	BrideName   string `json:"brideName" binding:"required,max=190"`
	PartnerName string `json:"partnerName" binding:"omitempty,max=190"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required,min=7,max=32"`
	EventDate   string `json:"eventDate" binding:"required,datetime=2006-01-02"`
	VendorID    uint   `json:"vendorId" binding:"required"`
	EventType   string `json:"eventType" binding:"omitempty,max=190"`
	Message     string `json:"message" binding:"omitempty,max=5000"`
}

func (h *httpHandler) handleCreateInquiry(c *gin.Context) {
	var payload inquiryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}

	eventDate, err := time.Parse("2006-01-02", payload.EventDate)
	if err != nil {
		respondFieldErrors(c, map[string]string{"eventDate": "must be a date formatted as YYYY-MM-DD"})
		return
	}

	result, err := h.inquiries.Create(c.Request.Context(), inquiry.CreateInput{
		BrideName:     payload.BrideName,
		PartnerName:   payload.PartnerName,
		Email:         payload.Email,
		Phone:         payload.Phone,
		EventDate:     eventDate,
		VendorID:      payload.VendorID,
		EventTypeName: payload.EventType,
		Message:       payload.Message,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	message := "Inquiry received"
	if !result.ClientEmailSent {
		message = "Inquiry received; confirmation email could not be sent"
	}
	respondData(c, http.StatusCreated, gin.H{
		"inquiryId":          result.InquiryID,
		"inquiryNumber":      result.InquiryNumber,
		"loginUrl":           result.LoginURL,
		"designSlotsCreated": result.DesignSlotsCreated,
		"clientEmailSent":    result.ClientEmailSent,
		"vendorEmailSent":    result.VendorEmailSent,
		"message":            message,
	})
}
