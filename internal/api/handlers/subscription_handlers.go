package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apimiddleware "github.com/iol-platform/logistics-service/internal/api/middleware"
	"github.com/iol-platform/logistics-service/internal/application"
	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/middleware"
)

// SubscriptionSecrets holds the shared secrets gating the subscription endpoints
type SubscriptionSecrets struct {
	// SubscriptionSecret is expected in x-api-key on inbound pushes
	SubscriptionSecret string
	// ServerOwnSecret is expected in the serversecret header on operator reads
	ServerOwnSecret string
	// KeyForServerInformation is expected in x-api-key on server information reads
	KeyForServerInformation string
}

// SubscriptionService defines the application operations the handlers use
type SubscriptionService interface {
	ReceiveNotification(ctx context.Context, topic string, payload domain.Document) error
	ListInbound(ctx context.Context, topic string) ([]application.InboundRecordView, error)
	ServerInformation() application.ServerInformation
	SubscriptionDetails(topic string) application.SubscriptionDetails
}

// SubscriptionHandlers serves the federation endpoints: the push callback,
// the inbox of received objects and the server information document.
type SubscriptionHandlers struct {
	service SubscriptionService
	logger  *logging.Logger
	secrets SubscriptionSecrets
}

// NewSubscriptionHandlers creates a new SubscriptionHandlers
func NewSubscriptionHandlers(service SubscriptionService, logger *logging.Logger, secrets SubscriptionSecrets) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		service: service,
		logger:  logger.WithComponent("subscription-handlers"),
		secrets: secrets,
	}
}

// RegisterRoutes mounts the federation routes on the router root
func (h *SubscriptionHandlers) RegisterRoutes(router gin.IRouter) {
	router.POST("/callbackUrl", apimiddleware.RequireHeaderSecret(
		apimiddleware.HeaderAPIKey, h.secrets.SubscriptionSecret,
		http.StatusUnauthorized, "Unauthorized to send logistics objects to this server",
	), h.ReceiveNotification)

	router.GET("/losFromPublishers", apimiddleware.RequireHeaderSecret(
		apimiddleware.HeaderServerSecret, h.secrets.ServerOwnSecret,
		http.StatusForbidden, "Forbidden to get logistics objects from this server",
	), h.ListInbound)

	router.GET("/serverInformation", apimiddleware.RequireHeaderSecret(
		apimiddleware.HeaderAPIKey, h.secrets.KeyForServerInformation,
		http.StatusUnauthorized, "Unauthorized to retrieve server information",
	), h.ServerInformation)
}

// ReceiveNotification handles POST /callbackUrl. The topic of the pushed
// object is taken from the Resource-Type header set by the publisher.
func (h *SubscriptionHandlers) ReceiveNotification(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var payload domain.Document
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.RespondBadRequest("invalid request body: " + err.Error())
		return
	}

	topic := c.GetHeader("Resource-Type")

	if err := h.service.ReceiveNotification(c.Request.Context(), topic, payload); err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logistics object notification successful!"})
}

// ListInbound handles GET /losFromPublishers
func (h *SubscriptionHandlers) ListInbound(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	views, err := h.service.ListInbound(c.Request.Context(), c.Query("topic"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// ServerInformation handles GET /serverInformation. With a topic query
// parameter the subscription details for that topic are returned instead.
func (h *SubscriptionHandlers) ServerInformation(c *gin.Context) {
	c.Header("Content-Type", middleware.ContentTypeJSONLD)

	if topic := c.Query("topic"); topic != "" {
		c.JSON(http.StatusOK, h.service.SubscriptionDetails(topic))
		return
	}

	c.JSON(http.StatusOK, h.service.ServerInformation())
}
