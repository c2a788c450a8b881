package application

import (
	"context"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/metrics"
)

const vocab = "https://tcfplayground.org"

// ServerIdentity describes this server in the internet of logistics
type ServerIdentity struct {
	BaseURL            string
	CompanyName        string
	IATACargoAgentCode string
	SubscriptionSecret string
	CacheFor           int
}

// ServerInformation is the public description of this server
type ServerInformation struct {
	Context                   map[string]string `json:"@context"`
	ID                        string            `json:"@id"`
	Type                      string            `json:"@type"`
	Company                   ServerCompany     `json:"company"`
	ServerEndpoint            string            `json:"serverEndpoint"`
	SupportedLogisticsObjects []string          `json:"supportedLogisticsObjects"`
	ContentTypes              []string          `json:"contentTypes"`
}

// ServerCompany identifies the company operating this server
type ServerCompany struct {
	Type               string `json:"@type"`
	Name               string `json:"name"`
	IATACargoAgentCode string `json:"IATACargoAgentCode"`
}

// SubscriptionDetails is what this server hands out to publishers that ask
// how to push logistics objects to it
type SubscriptionDetails struct {
	Context                  map[string]string `json:"@context"`
	ID                       string            `json:"@id"`
	Type                     string            `json:"@type"`
	SubscribedTo             string            `json:"subscribedTo"`
	CallbackURL              string            `json:"callbackUrl"`
	ContentType              []string          `json:"contentType"`
	Secret                   string            `json:"secret"`
	SubscribeToStatusUpdates bool              `json:"subscribeToStatusUpdates"`
	CacheFor                 int               `json:"cacheFor"`
}

// SubscriptionService receives notifications from publishers and answers
// server information queries
type SubscriptionService struct {
	inbound  InboundRepository
	events   EventPublisher
	metrics  *metrics.Metrics
	logger   *logging.Logger
	identity ServerIdentity
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(inbound InboundRepository, events EventPublisher, m *metrics.Metrics, logger *logging.Logger, identity ServerIdentity) *SubscriptionService {
	return &SubscriptionService{
		inbound:  inbound,
		events:   events,
		metrics:  m,
		logger:   logger.WithComponent("subscription-service"),
		identity: identity,
	}
}

// ReceiveNotification appends a logistics object pushed by a publisher
func (s *SubscriptionService) ReceiveNotification(ctx context.Context, topic string, payload domain.Document) error {
	rec := &domain.InboundRecord{
		Lo:    payload,
		Topic: topic,
	}

	if err := s.inbound.Insert(ctx, rec); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationReceived(topic)
	}
	if s.events != nil {
		s.events.PublishNotificationReceived(ctx, rec)
	}

	s.logger.Event(ctx, "notification.received", map[string]any{"topic": topic})
	return nil
}

// ListInbound returns received records, optionally filtered by topic. The
// topic is echoed in the projection only when a filter was given.
func (s *SubscriptionService) ListInbound(ctx context.Context, topic string) ([]InboundRecordView, error) {
	var (
		records []*domain.InboundRecord
		err     error
	)
	if topic != "" {
		records, err = s.inbound.FindByTopic(ctx, topic)
	} else {
		records, err = s.inbound.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	views := make([]InboundRecordView, 0, len(records))
	for _, rec := range records {
		view := InboundRecordView{Lo: rec.Lo}
		if topic != "" {
			view.Topic = rec.Topic
		}
		views = append(views, view)
	}
	return views, nil
}

// ServerInformation returns the public description of this server
func (s *SubscriptionService) ServerInformation() ServerInformation {
	supported := make([]string, 0, len(domain.SupportedTopics))
	for _, topic := range domain.SupportedTopics {
		supported = append(supported, vocab+"/"+topic)
	}

	return ServerInformation{
		Context:        map[string]string{"@vocab": vocab},
		ID:             s.identity.BaseURL + "/serverInformation",
		Type:           "ServerInformation",
		ServerEndpoint: s.identity.BaseURL,
		Company: ServerCompany{
			Type:               "Company",
			Name:               s.identity.CompanyName,
			IATACargoAgentCode: s.identity.IATACargoAgentCode,
		},
		SupportedLogisticsObjects: supported,
		ContentTypes:              []string{"application/json", "application/ld+json"},
	}
}

// SubscriptionDetails returns this server's subscription details for a topic
func (s *SubscriptionService) SubscriptionDetails(topic string) SubscriptionDetails {
	return SubscriptionDetails{
		Context:                  map[string]string{"@vocab": vocab},
		ID:                       s.identity.BaseURL + "/serverInformation?topic=" + topic,
		Type:                     "Subscription",
		SubscribedTo:             topic,
		CallbackURL:              s.identity.BaseURL + "/callbackUrl",
		ContentType:              []string{"application/json", "application/ld+json"},
		Secret:                   s.identity.SubscriptionSecret,
		SubscribeToStatusUpdates: true,
		CacheFor:                 s.identity.CacheFor,
	}
}
