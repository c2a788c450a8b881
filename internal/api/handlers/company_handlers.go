package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apimiddleware "github.com/iol-platform/logistics-service/internal/api/middleware"
	"github.com/iol-platform/logistics-service/internal/application"
	"github.com/iol-platform/logistics-service/internal/domain"
	apperrors "github.com/iol-platform/logistics-service/pkg/errors"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/middleware"
)

// CompanyService defines the application operations the handlers use
type CompanyService interface {
	Register(ctx context.Context, cmd application.RegisterCompanyCommand) error
	List(ctx context.Context) ([]application.CompanySummary, error)
	Get(ctx context.Context, companyID string) (*application.CompanyDetails, error)
	Update(ctx context.Context, companyID string, cmd application.UpdateCompanyCommand) error
	Delete(ctx context.Context, companyID string) error
}

// CompanyHandlers serves company registration and management endpoints
type CompanyHandlers struct {
	service CompanyService
	logger  *logging.Logger
}

// NewCompanyHandlers creates a new CompanyHandlers
func NewCompanyHandlers(service CompanyService, logger *logging.Logger) *CompanyHandlers {
	return &CompanyHandlers{
		service: service,
		logger:  logger.WithComponent("company-handlers"),
	}
}

// RegisterRoutes mounts the company routes. Registration is open, the listing
// is reserved to the server operator, and per-company routes require a bearer
// token belonging to the addressed company.
func (h *CompanyHandlers) RegisterRoutes(companies *gin.RouterGroup, verifier apimiddleware.TokenVerifier, serverOwnSecret string) {
	companies.POST("", h.Register)
	companies.GET("", apimiddleware.RequireHeaderSecret(
		apimiddleware.HeaderServerSecret, serverOwnSecret,
		http.StatusForbidden, "Forbidden to retrieve registered companies on this server",
	), h.List)

	owned := companies.Group("/:companyId", apimiddleware.BearerAuth(verifier), apimiddleware.RequireCompanyAccess())
	owned.GET("", h.Get)
	owned.PATCH("", h.Update)
	owned.DELETE("", h.Delete)
}

// Register handles POST /companies
func (h *CompanyHandlers) Register(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.RegisterCompanyCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	if err := h.service.Register(c.Request.Context(), cmd); err != nil {
		if errors.Is(err, domain.ErrCompanyExists) {
			responder.RespondWithAppError(apperrors.ErrBadRequest("CompanyId already exists!"))
			return
		}
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "Company registration successful!"})
}

// List handles GET /companies
func (h *CompanyHandlers) List(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Get handles GET /companies/:companyId
func (h *CompanyHandlers) Get(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	details, err := h.service.Get(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// Update handles PATCH /companies/:companyId
func (h *CompanyHandlers) Update(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateCompanyCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	if err := h.service.Update(c.Request.Context(), c.Param("companyId"), cmd); err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Update successful."})
}

// Delete handles DELETE /companies/:companyId
func (h *CompanyHandlers) Delete(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.Delete(c.Request.Context(), c.Param("companyId")); err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company successfully deleted"})
}
