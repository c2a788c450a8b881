package application

import (
	"context"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/metrics"
)

// LogisticsObjectService implements the logistics object operations
type LogisticsObjectService struct {
	los       LogisticsObjectRepository
	companies CompanyRepository
	notifier  Notifier
	events    EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
	baseURL   string
}

// NewLogisticsObjectService creates a new LogisticsObjectService
func NewLogisticsObjectService(
	los LogisticsObjectRepository,
	companies CompanyRepository,
	notifier Notifier,
	events EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
	baseURL string,
) *LogisticsObjectService {
	return &LogisticsObjectService{
		los:       los,
		companies: companies,
		notifier:  notifier,
		events:    events,
		metrics:   m,
		logger:    logger.WithComponent("logistics-object-service"),
		baseURL:   baseURL,
	}
}

// Create stores a new logistics object for a company. When alertSubscribers
// is set, companies subscribed to the object's type are notified best effort
// after the object is accepted.
func (s *LogisticsObjectService) Create(ctx context.Context, companyID string, doc domain.Document, alertSubscribers bool) (*domain.LogisticsObject, error) {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	lo, err := domain.NewLogisticsObject(doc, s.baseURL, companyID)
	if err != nil {
		return nil, err
	}

	if alertSubscribers && s.notifier != nil {
		s.notifier.NotifySubscribers(ctx, lo.Type, lo.Content)
	}

	if err := s.los.Insert(ctx, lo); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordLogisticsObjectCreated(lo.Type)
	}
	if s.events != nil {
		s.events.PublishLogisticsObjectCreated(ctx, lo)
	}

	s.logger.Event(ctx, "logistics_object.created", map[string]any{
		"companyId": companyID,
		"loId":      lo.LoID,
		"type":      lo.Type,
	})

	return lo, nil
}

// List returns the projections of every logistics object a company owns
func (s *LogisticsObjectService) List(ctx context.Context, companyID string) ([]LogisticsObjectView, error) {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	los, err := s.los.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	views := make([]LogisticsObjectView, 0, len(los))
	for _, lo := range los {
		views = append(views, NewLogisticsObjectView(lo))
	}
	return views, nil
}

// Get returns a single logistics object owned by a company
func (s *LogisticsObjectService) Get(ctx context.Context, companyID, loID string) (*domain.LogisticsObject, error) {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.los.FindOne(ctx, companyID, loID)
}

// Patch merges a partial update into a logistics object's content
func (s *LogisticsObjectService) Patch(ctx context.Context, companyID, loID string, patch domain.Document) (*domain.LogisticsObject, error) {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	lo, err := s.los.FindOne(ctx, companyID, loID)
	if err != nil {
		return nil, err
	}

	lo.Content = domain.Merge(lo.Content, patch)

	if err := s.los.UpdateContent(ctx, companyID, loID, lo.Content); err != nil {
		return nil, err
	}

	return lo, nil
}

// Delete removes a logistics object owned by a company
func (s *LogisticsObjectService) Delete(ctx context.Context, companyID, loID string) error {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return err
	}
	return s.los.Delete(ctx, companyID, loID)
}
