package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/metrics"
)

const companiesCollection = "companies"

// CompanyRepository persists companies in MongoDB
type CompanyRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewCompanyRepository creates a new CompanyRepository and ensures its indexes
func NewCompanyRepository(db *mongo.Database, m *metrics.Metrics) *CompanyRepository {
	repo := &CompanyRepository{
		collection: db.Collection(companiesCollection),
		metrics:    m,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *CompanyRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "companyId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "topics", Value: 1}}},
	}
	_, _ = r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *CompanyRepository) record(operation string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.RecordMongoDBOperation(companiesCollection, operation, err == nil, time.Since(start))
	}
}

// Create inserts a new company
func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	start := time.Now()

	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, company)
	r.record("insert", start, err)

	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrCompanyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// FindByID returns the company with the given companyId
func (r *CompanyRepository) FindByID(ctx context.Context, companyID string) (*domain.Company, error) {
	start := time.Now()

	var company domain.Company
	err := r.collection.FindOne(ctx, bson.M{"companyId": companyID}).Decode(&company)
	r.record("findOne", start, err)

	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return &company, nil
}

// FindAll returns every registered company
func (r *CompanyRepository) FindAll(ctx context.Context) ([]*domain.Company, error) {
	start := time.Now()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		r.record("find", start, err)
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []*domain.Company
	err = cursor.All(ctx, &companies)
	r.record("find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}

// FindByTopic returns the companies that declared interest in a topic
func (r *CompanyRepository) FindByTopic(ctx context.Context, topic string) ([]*domain.Company, error) {
	start := time.Now()

	cursor, err := r.collection.Find(ctx, bson.M{"topics": topic})
	if err != nil {
		r.record("find", start, err)
		return nil, fmt.Errorf("failed to find companies by topic: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []*domain.Company
	err = cursor.All(ctx, &companies)
	r.record("find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}

// Update applies a partial update to a company
func (r *CompanyRepository) Update(ctx context.Context, companyID string, fields map[string]any) error {
	start := time.Now()

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"companyId": companyID}, bson.M{"$set": set})
	r.record("updateOne", start, err)

	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// Delete removes a company
func (r *CompanyRepository) Delete(ctx context.Context, companyID string) error {
	start := time.Now()

	result, err := r.collection.DeleteOne(ctx, bson.M{"companyId": companyID})
	r.record("deleteOne", start, err)

	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}
