package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/kafka"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/metrics"
)

// Publisher emits lifecycle events to Kafka. Publishing is best effort;
// failures are logged and never surface to the caller.
type Publisher struct {
	producer *kafka.Producer
	metrics  *metrics.Metrics
	logger   *logging.Logger
	source   string
}

// NewPublisher creates a new Publisher
func NewPublisher(producer *kafka.Producer, m *metrics.Metrics, logger *logging.Logger, source string) *Publisher {
	return &Publisher{
		producer: producer,
		metrics:  m,
		logger:   logger.WithComponent("event-publisher"),
		source:   source,
	}
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, subject string, data any) {
	event := &kafka.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Source:  p.source,
		Subject: subject,
		Time:    time.Now().UTC(),
		Data:    data,
	}

	start := time.Now()
	p.producer.PublishEventAsync(ctx, topic, event, func(err error) {
		if p.metrics != nil {
			p.metrics.RecordKafkaPublish(topic, eventType, err == nil, time.Since(start))
		}
		if err != nil {
			p.logger.WithError(err).Warn("Failed to publish event",
				"topic", topic,
				"eventType", eventType,
				"subject", subject,
			)
		}
	})
}

// PublishLogisticsObjectCreated emits a creation event for a logistics object
func (p *Publisher) PublishLogisticsObjectCreated(ctx context.Context, lo *domain.LogisticsObject) {
	p.publish(ctx, kafka.Topics.LogisticsObjectEvents, "logistics-object.created", lo.LoID, map[string]any{
		"loId":      lo.LoID,
		"companyId": lo.CompanyID,
		"type":      lo.Type,
		"url":       lo.URL,
	})
}

// PublishNotificationReceived emits an event for an inbound notification
func (p *Publisher) PublishNotificationReceived(ctx context.Context, rec *domain.InboundRecord) {
	p.publish(ctx, kafka.Topics.NotificationEvents, "notification.received", rec.Topic, map[string]any{
		"topic": rec.Topic,
	})
}

// PublishCompanyRegistered emits an event for a company registration
func (p *Publisher) PublishCompanyRegistered(ctx context.Context, company *domain.Company) {
	p.publish(ctx, kafka.Topics.CompanyEvents, "company.registered", company.CompanyID, map[string]any{
		"companyId":   company.CompanyID,
		"companyType": company.CompanyType,
	})
}
