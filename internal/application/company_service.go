package application

import (
	"context"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/logging"
)

// CompanyService implements company registration and management
type CompanyService struct {
	companies CompanyRepository
	los       LogisticsObjectRepository
	events    EventPublisher
	logger    *logging.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companies CompanyRepository, los LogisticsObjectRepository, events EventPublisher, logger *logging.Logger) *CompanyService {
	return &CompanyService{
		companies: companies,
		los:       los,
		events:    events,
		logger:    logger.WithComponent("company-service"),
	}
}

// Register creates a new company. Registration is open; the companyId must
// be unique on this server.
func (s *CompanyService) Register(ctx context.Context, cmd RegisterCompanyCommand) error {
	company := &domain.Company{
		CompanyID:                       cmd.CompanyID,
		CompanyName:                     cmd.CompanyName,
		CompanyType:                     cmd.CompanyType,
		ContactName:                     cmd.ContactName,
		ContactEmail:                    cmd.ContactEmail,
		ServerInformationEndpoint:       cmd.ServerInformationEndpoint,
		KeyForServerInformationEndpoint: cmd.KeyForServerInformationEndpoint,
		Topics:                          cmd.Topics,
		CompanyImage:                    cmd.CompanyImage,
		CompanyDescription:              cmd.CompanyDescription,
		CompanyPin:                      cmd.CompanyPin,
		Active:                          true,
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return err
	}

	if s.events != nil {
		s.events.PublishCompanyRegistered(ctx, company)
	}

	s.logger.Event(ctx, "company.registered", map[string]any{
		"companyId":   company.CompanyID,
		"companyType": company.CompanyType,
	})

	return nil
}

// List returns a summary of every registered company
func (s *CompanyService) List(ctx context.Context) ([]CompanySummary, error) {
	companies, err := s.companies.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]CompanySummary, 0, len(companies))
	for _, company := range companies {
		summaries = append(summaries, CompanySummary{
			CompanyName: company.CompanyName,
			CompanyID:   company.CompanyID,
			Endpoint:    company.ServerInformationEndpoint,
		})
	}
	return summaries, nil
}

// Get returns the details of a single company
func (s *CompanyService) Get(ctx context.Context, companyID string) (*CompanyDetails, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &CompanyDetails{
		CompanyName:                     company.CompanyName,
		ContactName:                     company.ContactName,
		ContactEmail:                    company.ContactEmail,
		CompanyType:                     company.CompanyType,
		ServerInformationEndpoint:       company.ServerInformationEndpoint,
		KeyForServerInformationEndpoint: company.KeyForServerInformationEndpoint,
		Topics:                          company.Topics,
		CompanyImage:                    company.CompanyImage,
		CompanyDescription:              company.CompanyDescription,
	}, nil
}

// Update applies a partial update to a company
func (s *CompanyService) Update(ctx context.Context, companyID string, cmd UpdateCompanyCommand) error {
	fields := cmd.Fields()
	if len(fields) == 0 {
		return nil
	}
	return s.companies.Update(ctx, companyID, fields)
}

// Delete removes a company together with the logistics objects it owns
func (s *CompanyService) Delete(ctx context.Context, companyID string) error {
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return err
	}

	if err := s.los.DeleteByCompany(ctx, companyID); err != nil {
		s.logger.WithError(err).Warn("Failed to delete logistics objects of removed company", "companyId", companyID)
	}

	return nil
}
