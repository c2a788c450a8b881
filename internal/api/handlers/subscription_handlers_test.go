package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iol-platform/logistics-service/internal/application"
	"github.com/iol-platform/logistics-service/internal/domain"
)

type mockSubscriptionService struct {
	receiveFn     func(ctx context.Context, topic string, payload domain.Document) error
	listInboundFn func(ctx context.Context, topic string) ([]application.InboundRecordView, error)
	serverInfoFn  func() application.ServerInformation
	detailsFn     func(topic string) application.SubscriptionDetails
}

func (m *mockSubscriptionService) ReceiveNotification(ctx context.Context, topic string, payload domain.Document) error {
	if m.receiveFn == nil {
		panic("ReceiveNotification not implemented")
	}
	return m.receiveFn(ctx, topic, payload)
}

func (m *mockSubscriptionService) ListInbound(ctx context.Context, topic string) ([]application.InboundRecordView, error) {
	if m.listInboundFn == nil {
		panic("ListInbound not implemented")
	}
	return m.listInboundFn(ctx, topic)
}

func (m *mockSubscriptionService) ServerInformation() application.ServerInformation {
	if m.serverInfoFn == nil {
		panic("ServerInformation not implemented")
	}
	return m.serverInfoFn()
}

func (m *mockSubscriptionService) SubscriptionDetails(topic string) application.SubscriptionDetails {
	if m.detailsFn == nil {
		panic("SubscriptionDetails not implemented")
	}
	return m.detailsFn(topic)
}

var testSecrets = SubscriptionSecrets{
	SubscriptionSecret:      "push-secret",
	ServerOwnSecret:         testServerSecret,
	KeyForServerInformation: "info-key",
}

func subscriptionRouter(service SubscriptionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSubscriptionHandlers(service, newTestLogger(), testSecrets)
	h.RegisterRoutes(router)
	return router
}

func TestReceiveNotification_OK(t *testing.T) {
	var gotTopic string
	var gotPayload domain.Document
	service := &mockSubscriptionService{
		receiveFn: func(ctx context.Context, topic string, payload domain.Document) error {
			gotTopic = topic
			gotPayload = payload
			return nil
		},
	}
	router := subscriptionRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/callbackUrl?topic=Booking", bytes.NewBufferString(`{"@type":"Booking","bookingNumber":"B-1"}`))
	req.Header.Set("x-api-key", "push-secret")
	req.Header.Set("Resource-Type", "Booking")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logistics object notification successful!")
	assert.Equal(t, "Booking", gotTopic)
	assert.Equal(t, "B-1", gotPayload["bookingNumber"])
}

func TestReceiveNotification_WrongKey(t *testing.T) {
	router := subscriptionRouter(&mockSubscriptionService{})

	req := httptest.NewRequest(http.MethodPost, "/callbackUrl", bytes.NewBufferString(`{}`))
	req.Header.Set("x-api-key", "wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/ld+json")
}

func TestListInbound_TopicFilterPassedThrough(t *testing.T) {
	var gotTopic string
	service := &mockSubscriptionService{
		listInboundFn: func(ctx context.Context, topic string) ([]application.InboundRecordView, error) {
			gotTopic = topic
			return []application.InboundRecordView{
				{Lo: domain.Document{"@type": "Booking"}, Topic: "Booking"},
			}, nil
		},
	}
	router := subscriptionRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/losFromPublishers?topic=Booking", nil)
	req.Header.Set("serversecret", testServerSecret)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Booking", gotTopic)

	var views []application.InboundRecordView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Booking", views[0].Topic)
}

func TestListInbound_WrongSecret(t *testing.T) {
	router := subscriptionRouter(&mockSubscriptionService{})

	req := httptest.NewRequest(http.MethodGet, "/losFromPublishers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServerInformation_Document(t *testing.T) {
	service := &mockSubscriptionService{
		serverInfoFn: func() application.ServerInformation {
			return application.ServerInformation{
				Context:        map[string]string{"@vocab": "https://tcfplayground.org"},
				Type:           "ServerInformation",
				ServerEndpoint: "https://server.example.com",
			}
		},
	}
	router := subscriptionRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/serverInformation", nil)
	req.Header.Set("x-api-key", "info-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/ld+json")

	var info application.ServerInformation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "ServerInformation", info.Type)
}

func TestServerInformation_TopicReturnsSubscriptionDetails(t *testing.T) {
	service := &mockSubscriptionService{
		detailsFn: func(topic string) application.SubscriptionDetails {
			return application.SubscriptionDetails{
				Type:         "Subscription",
				SubscribedTo: topic,
				CallbackURL:  "https://server.example.com/callbackUrl",
				Secret:       "push-secret",
			}
		},
	}
	router := subscriptionRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/serverInformation?topic=Airwaybill", nil)
	req.Header.Set("x-api-key", "info-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var details application.SubscriptionDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, "Airwaybill", details.SubscribedTo)
	assert.Equal(t, "https://server.example.com/callbackUrl", details.CallbackURL)
}

func TestServerInformation_WrongKey(t *testing.T) {
	router := subscriptionRouter(&mockSubscriptionService{})

	req := httptest.NewRequest(http.MethodGet, "/serverInformation", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
