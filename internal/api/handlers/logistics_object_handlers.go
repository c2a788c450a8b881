package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apimiddleware "github.com/iol-platform/logistics-service/internal/api/middleware"
	"github.com/iol-platform/logistics-service/internal/application"
	"github.com/iol-platform/logistics-service/internal/domain"
	apperrors "github.com/iol-platform/logistics-service/pkg/errors"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/middleware"
)

// LogisticsObjectService defines the application operations the handlers use
type LogisticsObjectService interface {
	Create(ctx context.Context, companyID string, doc domain.Document, alertSubscribers bool) (*domain.LogisticsObject, error)
	List(ctx context.Context, companyID string) ([]application.LogisticsObjectView, error)
	Get(ctx context.Context, companyID, loID string) (*domain.LogisticsObject, error)
	Patch(ctx context.Context, companyID, loID string, patch domain.Document) (*domain.LogisticsObject, error)
	Delete(ctx context.Context, companyID, loID string) error
}

// LogisticsObjectHandlers serves the logistics object endpoints of a company
type LogisticsObjectHandlers struct {
	service LogisticsObjectService
	logger  *logging.Logger
}

// NewLogisticsObjectHandlers creates a new LogisticsObjectHandlers
func NewLogisticsObjectHandlers(service LogisticsObjectService, logger *logging.Logger) *LogisticsObjectHandlers {
	return &LogisticsObjectHandlers{
		service: service,
		logger:  logger.WithComponent("logistics-object-handlers"),
	}
}

// RegisterRoutes mounts the logistics object routes under a company. Every
// route requires a bearer token belonging to the addressed company.
func (h *LogisticsObjectHandlers) RegisterRoutes(companies *gin.RouterGroup, verifier apimiddleware.TokenVerifier) {
	los := companies.Group("/:companyId/los", apimiddleware.BearerAuth(verifier), apimiddleware.RequireCompanyAccess())

	los.POST("", h.Create)
	los.GET("", h.List)
	los.DELETE("", h.methodNotSupported("DELETE"))

	los.GET("/:loId", h.Get)
	los.PATCH("/:loId", h.Patch)
	los.DELETE("/:loId", h.Delete)
	los.PUT("/:loId", h.methodNotSupported("PUT"))
}

// Create handles POST /companies/:companyId/los
func (h *LogisticsObjectHandlers) Create(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var doc domain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		responder.RespondBadRequest("invalid request body: " + err.Error())
		return
	}

	alertSubscribers := c.Query("alertSubscribers") == "true"

	lo, err := h.service.Create(c.Request.Context(), c.Param("companyId"), doc, alertSubscribers)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, lo)
}

// List handles GET /companies/:companyId/los
func (h *LogisticsObjectHandlers) List(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	views, err := h.service.List(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Get handles GET /companies/:companyId/los/:loId
func (h *LogisticsObjectHandlers) Get(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	lo, err := h.service.Get(c.Request.Context(), c.Param("companyId"), c.Param("loId"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, lo)
}

// Patch handles PATCH /companies/:companyId/los/:loId
func (h *LogisticsObjectHandlers) Patch(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var patch domain.Document
	if err := c.ShouldBindJSON(&patch); err != nil {
		responder.RespondBadRequest("invalid request body: " + err.Error())
		return
	}

	lo, err := h.service.Patch(c.Request.Context(), c.Param("companyId"), c.Param("loId"), patch)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, lo)
}

// Delete handles DELETE /companies/:companyId/los/:loId
func (h *LogisticsObjectHandlers) Delete(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.Delete(c.Request.Context(), c.Param("companyId"), c.Param("loId")); err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logistics object successfully deleted"})
}

func (h *LogisticsObjectHandlers) methodNotSupported(method string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.AbortWithAppError(c, apperrors.NewAppError(
			apperrors.CodeBadRequest,
			method+" operation not supported for this endpoint",
			http.StatusMethodNotAllowed,
		))
	}
}
