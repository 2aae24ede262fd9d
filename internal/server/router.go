package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/petalworks/bloom/backend/internal/catalog"
	"github.com/petalworks/bloom/backend/internal/events"
	"github.com/petalworks/bloom/backend/internal/inquiry"
	"github.com/petalworks/bloom/backend/internal/vendors"
	"go.uber.org/zap"
)

const clientIDContextKey = "bloom_client_id"

var (
	errMissingVendorService  = errors.New("vendor service dependency required")
	errMissingCatalogService = errors.New("catalog service dependency required")
	errMissingEventService   = errors.New("event service dependency required")
	errMissingInquiryService = errors.New("inquiry service dependency required")
	errMissingTokenValidator = errors.New("token validator dependency required")
)

// TokenValidator checks client login tokens on protected routes.
type TokenValidator interface {
	ValidateToken(token string) (uint, error)
}

// Dependencies wires the services behind the HTTP surface.
type Dependencies struct {
	Vendors   *vendors.Service
	Catalog   *catalog.Service
	Events    *events.Service
	Inquiries *inquiry.Service
	Tokens    TokenValidator

	// AuthRequired gates event mutations behind client login tokens.
	// Off by default; the historical surface checked nothing.
	AuthRequired bool
	Logger       *zap.Logger
}

// NewHTTPHandler builds the full API router.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Vendors == nil {
		return nil, errMissingVendorService
	}
	if deps.Catalog == nil {
		return nil, errMissingCatalogService
	}
	if deps.Events == nil {
		return nil, errMissingEventService
	}
	if deps.Inquiries == nil {
		return nil, errMissingInquiryService
	}
	if deps.AuthRequired && deps.Tokens == nil {
		return nil, errMissingTokenValidator
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		vendors:      deps.Vendors,
		catalog:      deps.Catalog,
		events:       deps.Events,
		inquiries:    deps.Inquiries,
		tokens:       deps.Tokens,
		authRequired: deps.AuthRequired,
		logger:       logger,
	}

	api := router.Group("/api")
	api.POST("/inquiries/create", handler.handleCreateInquiry)

	api.GET("/vendors/by-slug", handler.handleVendorBySlug)
	vendorRoutes := api.Group("/vendors/:vendorID")
	vendorRoutes.GET("/colors", handler.handleVendorColors)
	vendorRoutes.GET("/flowers", handler.handleVendorFlowers)
	vendorRoutes.GET("/arrangements", handler.handleVendorArrangements)
	vendorRoutes.GET("/arrangement-types", handler.handleVendorArrangementTypes)
	vendorRoutes.GET("/flower-categories", handler.handleVendorFlowerCategories)
	vendorRoutes.GET("/event-types", handler.handleVendorEventTypes)

	eventRoutes := api.Group("/events/:eventID")
	eventRoutes.GET("/arrangements", handler.handleListArrangements)
	eventRoutes.GET("/colors", handler.handleGetColors)
	eventRoutes.GET("/design", handler.handleGetDesign)
	eventRoutes.GET("/inspirations", handler.handleListInspirations)

	mutations := api.Group("/events/:eventID")
	mutations.Use(handler.authorizeClient)
	mutations.POST("/arrangements", handler.handleUpsertArrangement)
	mutations.PATCH("/arrangements", handler.handleUpsertArrangement)
	mutations.DELETE("/arrangements", handler.handleDeleteArrangement)
	mutations.POST("/arrangements/bulk-update", handler.handleBulkUpdateArrangements)
	mutations.PATCH("/colors", handler.handleSaveColors)
	mutations.POST("/design", handler.handleSaveDesign)
	mutations.PATCH("/design/auto-save", handler.handleAutoSaveDesign)
	mutations.PATCH("/flowers", handler.handleSaveFlowers)
	mutations.POST("/inspirations", handler.handleAddInspirations)
	mutations.DELETE("/inspirations/:inspirationID", handler.handleDeleteInspiration)

	return router, nil
}

type httpHandler struct {
	vendors      *vendors.Service
	catalog      *catalog.Service
	events       *events.Service
	inquiries    *inquiry.Service
	tokens       TokenValidator
	authRequired bool
	logger       *zap.Logger
}

// authorizeClient validates the bearer token when auth is enabled. With
// auth disabled it passes every request through unchanged.
func (h *httpHandler) authorizeClient(c *gin.Context) {
	if !h.authRequired {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   errorBody{Code: codeUnauthorized, Message: "authorization header missing or invalid"},
		})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	clientID, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("client token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   errorBody{Code: codeUnauthorized, Message: "unauthorized"},
		})
		return
	}
	c.Set(clientIDContextKey, clientID)
	c.Next()
}

// pathID parses a numeric path parameter, or responds 400 and reports false.
func pathID(c *gin.Context, name, label string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		respondError(c, http.StatusBadRequest, codeValidation, "invalid "+label)
		return 0, false
	}
	return uint(parsed), true
}
