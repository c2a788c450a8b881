package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iol-platform/logistics-service/internal/application"
	"github.com/iol-platform/logistics-service/internal/domain"
	apperrors "github.com/iol-platform/logistics-service/pkg/errors"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/middleware"
)

// AuthService defines the application operations the handlers use
type AuthService interface {
	Register(ctx context.Context, companyID string, cmd application.RegisterUserCommand) error
	Login(ctx context.Context, cmd application.LoginCommand) (string, error)
}

// UserHandlers serves user registration and login
type UserHandlers struct {
	service AuthService
	logger  *logging.Logger
}

// NewUserHandlers creates a new UserHandlers
func NewUserHandlers(service AuthService, logger *logging.Logger) *UserHandlers {
	return &UserHandlers{
		service: service,
		logger:  logger.WithComponent("user-handlers"),
	}
}

// RegisterRoutes mounts user registration under companies and login on the root
func (h *UserHandlers) RegisterRoutes(router gin.IRouter, companies *gin.RouterGroup) {
	companies.POST("/:companyId/users", h.Register)
	router.POST("/login", h.Login)
}

// Register handles POST /companies/:companyId/users. Registration is gated
// by the company's PIN.
func (h *UserHandlers) Register(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.RegisterUserCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	if err := h.service.Register(c.Request.Context(), c.Param("companyId"), cmd); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			responder.RespondWithAppError(apperrors.ErrBadRequest("Username already exists!"))
			return
		}
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "User registration successful!"})
}

// Login handles POST /login and returns a bearer token
func (h *UserHandlers) Login(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.LoginCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	token, err := h.service.Login(c.Request.Context(), cmd)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Login successful!", "token": token})
}
