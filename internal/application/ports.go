package application

import (
	"context"

	"github.com/iol-platform/logistics-service/internal/domain"
)

// CompanyRepository is the persistence port for companies
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	FindByID(ctx context.Context, companyID string) (*domain.Company, error)
	FindAll(ctx context.Context) ([]*domain.Company, error)
	FindByTopic(ctx context.Context, topic string) ([]*domain.Company, error)
	Update(ctx context.Context, companyID string, fields map[string]any) error
	Delete(ctx context.Context, companyID string) error
}

// LogisticsObjectRepository is the persistence port for logistics objects
type LogisticsObjectRepository interface {
	Insert(ctx context.Context, lo *domain.LogisticsObject) error
	FindByCompany(ctx context.Context, companyID string) ([]*domain.LogisticsObject, error)
	FindOne(ctx context.Context, companyID, loID string) (*domain.LogisticsObject, error)
	UpdateContent(ctx context.Context, companyID, loID string, content domain.Document) error
	Delete(ctx context.Context, companyID, loID string) error
	DeleteByCompany(ctx context.Context, companyID string) error
}

// InboundRepository is the persistence port for received notifications
type InboundRepository interface {
	Insert(ctx context.Context, rec *domain.InboundRecord) error
	FindAll(ctx context.Context) ([]*domain.InboundRecord, error)
	FindByTopic(ctx context.Context, topic string) ([]*domain.InboundRecord, error)
}

// UserRepository is the persistence port for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Notifier fans a new logistics object out to subscribed peers
type Notifier interface {
	NotifySubscribers(ctx context.Context, topic string, content domain.Document)
}

// EventPublisher publishes lifecycle events to the event bus
type EventPublisher interface {
	PublishLogisticsObjectCreated(ctx context.Context, lo *domain.LogisticsObject)
	PublishNotificationReceived(ctx context.Context, rec *domain.InboundRecord)
	PublishCompanyRegistered(ctx context.Context, company *domain.Company)
}
