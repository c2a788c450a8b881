package peers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/metrics"
)

var peerTracer = otel.Tracer("logistics-service/infrastructure/peers")

// Headers exchanged between servers
const (
	HeaderAPIKey            = "x-api-key"
	HeaderResourceType      = "Resource-Type"
	HeaderOrigRequestMethod = "Orig-Request-Method"
)

// Config holds peer gateway configuration
type Config struct {
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

// Gateway performs subscription fetches and logistics object pushes
// against peer servers. Calls to each peer host run through a dedicated
// circuit breaker.
type Gateway struct {
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.Metrics

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewGateway creates a new peer gateway
func NewGateway(config *Config, logger *logging.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:   logger.WithComponent("peer-gateway"),
		metrics:  m,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (g *Gateway) breakerFor(host string) *gobreaker.CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, exists := g.breakers[host]; exists {
		return cb
	}

	logger := g.logger
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Peer circuit breaker state changed",
				"peer", name,
				"from", from.String(),
				"to", to.String(),
			)
			if g.metrics != nil {
				g.metrics.SetCircuitBreakerState(name, int(to))
				if to == gobreaker.StateOpen {
					g.metrics.RecordCircuitBreakerTrip(name)
				}
			}
		},
	})

	g.breakers[host] = cb
	return cb
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}

// FetchSubscription asks a peer's information endpoint for its subscription
// details on a topic
func (g *Gateway) FetchSubscription(ctx context.Context, endpoint, apiKey, topic string) (*domain.PeerSubscription, error) {
	ctx, span := peerTracer.Start(ctx, "peers.FetchSubscription",
		trace.WithAttributes(
			attribute.String("peer.endpoint", endpoint),
			attribute.String("topic", topic),
		),
	)
	defer span.End()

	start := time.Now()

	result, err := g.breakerFor(hostOf(endpoint)).Execute(func() (interface{}, error) {
		return g.fetchSubscription(ctx, endpoint, apiKey, topic)
	})

	if g.metrics != nil {
		g.metrics.RecordPeerFetch(err == nil, time.Since(start))
	}

	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return result.(*domain.PeerSubscription), nil
}

func (g *Gateway) fetchSubscription(ctx context.Context, endpoint, apiKey, topic string) (*domain.PeerSubscription, error) {
	reqURL := endpoint + "?topic=" + url.QueryEscape(topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set(HeaderAPIKey, apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach peer %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("peer %s returned status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	var subscription domain.PeerSubscription
	if err := json.NewDecoder(resp.Body).Decode(&subscription); err != nil {
		return nil, fmt.Errorf("failed to decode subscription details from %s: %w", endpoint, err)
	}

	if subscription.CallbackURL == "" {
		return nil, fmt.Errorf("peer %s returned subscription without callbackUrl", endpoint)
	}

	return &subscription, nil
}

// Push delivers a logistics object to a peer's callback URL
func (g *Gateway) Push(ctx context.Context, subscription *domain.PeerSubscription, topic string, content domain.Document) error {
	ctx, span := peerTracer.Start(ctx, "peers.Push",
		trace.WithAttributes(
			attribute.String("peer.callbackUrl", subscription.CallbackURL),
			attribute.String("topic", topic),
		),
	)
	defer span.End()

	start := time.Now()

	_, err := g.breakerFor(hostOf(subscription.CallbackURL)).Execute(func() (interface{}, error) {
		return nil, g.push(ctx, subscription, topic, content)
	})

	if g.metrics != nil {
		g.metrics.RecordPeerPush(topic, err == nil, time.Since(start))
	}

	if err != nil {
		span.RecordError(err)
	}

	return err
}

func (g *Gateway) push(ctx context.Context, subscription *domain.PeerSubscription, topic string, content domain.Document) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal logistics object: %w", err)
	}

	reqURL := subscription.CallbackURL + "?topic=" + url.QueryEscape(topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set(HeaderAPIKey, subscription.Secret)
	req.Header.Set("Content-Type", subscription.PushContentType())
	req.Header.Set(HeaderResourceType, topic)
	req.Header.Set(HeaderOrigRequestMethod, http.MethodPost)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push to %s: %w", subscription.CallbackURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("callback %s returned status %d: %s", subscription.CallbackURL, resp.StatusCode, string(body))
	}

	return nil
}
