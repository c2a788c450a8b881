package notification

import (
	"context"
	"sync"
	"time"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/logging"
)

// SubscriberFinder looks up companies that declared interest in a topic
type SubscriberFinder interface {
	FindByTopic(ctx context.Context, topic string) ([]*domain.Company, error)
}

// PeerGateway performs the two-step exchange with a peer server
type PeerGateway interface {
	FetchSubscription(ctx context.Context, endpoint, apiKey, topic string) (*domain.PeerSubscription, error)
	Push(ctx context.Context, subscription *domain.PeerSubscription, topic string, content domain.Document) error
}

// Dispatcher fans a new logistics object out to subscribed peers.
//
// Delivery is best effort: each candidate is handled in its own goroutine,
// failures are logged and never surface to the caller, and no delivery
// ordering is guaranteed.
type Dispatcher struct {
	subscribers SubscriberFinder
	gateway     PeerGateway
	logger      *logging.Logger
	callTimeout time.Duration

	wg sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(subscribers SubscriberFinder, gateway PeerGateway, logger *logging.Logger, callTimeout time.Duration) *Dispatcher {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &Dispatcher{
		subscribers: subscribers,
		gateway:     gateway,
		logger:      logger.WithComponent("notification-dispatcher"),
		callTimeout: callTimeout,
	}
}

// NotifySubscribers delivers a logistics object to every notifiable company
// interested in its topic. It returns immediately; delivery continues in the
// background detached from the caller's request lifecycle.
func (d *Dispatcher) NotifySubscribers(ctx context.Context, topic string, content domain.Document) {
	companies, err := d.subscribers.FindByTopic(ctx, topic)
	if err != nil {
		d.logger.WithError(err).Error("Failed to look up subscribers", "topic", topic)
		return
	}

	if len(companies) == 0 {
		d.logger.Info("No companies found interested in topic", "topic", topic)
		return
	}

	for _, company := range companies {
		if !company.Notifiable() {
			continue
		}

		d.wg.Add(1)
		go func(company *domain.Company) {
			defer d.wg.Done()
			d.notifyOne(company, topic, content)
		}(company)
	}
}

func (d *Dispatcher) notifyOne(company *domain.Company, topic string, content domain.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), d.callTimeout)
	defer cancel()

	subscription, err := d.gateway.FetchSubscription(ctx, company.ServerInformationEndpoint, company.KeyForServerInformationEndpoint, topic)
	if err != nil {
		d.logger.WithError(err).Warn("Unable to retrieve subscriber information",
			"companyId", company.CompanyID,
			"endpoint", company.ServerInformationEndpoint,
			"topic", topic,
		)
		return
	}

	if err := d.gateway.Push(ctx, subscription, topic, content); err != nil {
		d.logger.WithError(err).Warn("Unable to send logistics object to subscriber",
			"companyId", company.CompanyID,
			"callbackUrl", subscription.CallbackURL,
			"topic", topic,
		)
		return
	}

	d.logger.Info("Logistics object successfully sent to subscriber",
		"companyId", company.CompanyID,
		"callbackUrl", subscription.CallbackURL,
		"topic", topic,
	)
}

// Wait blocks until all in-flight deliveries finish
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
