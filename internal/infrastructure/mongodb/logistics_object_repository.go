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

const losCollection = "los"

// LogisticsObjectRepository persists logistics objects in MongoDB
type LogisticsObjectRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewLogisticsObjectRepository creates a new LogisticsObjectRepository and ensures its indexes
func NewLogisticsObjectRepository(db *mongo.Database, m *metrics.Metrics) *LogisticsObjectRepository {
	repo := &LogisticsObjectRepository{
		collection: db.Collection(losCollection),
		metrics:    m,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *LogisticsObjectRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "companyId", Value: 1}, {Key: "loId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}
	_, _ = r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *LogisticsObjectRepository) record(operation string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.RecordMongoDBOperation(losCollection, operation, err == nil, time.Since(start))
	}
}

// Insert stores a new logistics object
func (r *LogisticsObjectRepository) Insert(ctx context.Context, lo *domain.LogisticsObject) error {
	start := time.Now()

	_, err := r.collection.InsertOne(ctx, lo)
	r.record("insert", start, err)

	if err != nil {
		return fmt.Errorf("failed to insert logistics object: %w", err)
	}
	return nil
}

// FindByCompany returns every logistics object owned by a company
func (r *LogisticsObjectRepository) FindByCompany(ctx context.Context, companyID string) ([]*domain.LogisticsObject, error) {
	start := time.Now()

	cursor, err := r.collection.Find(ctx, bson.M{"companyId": companyID})
	if err != nil {
		r.record("find", start, err)
		return nil, fmt.Errorf("failed to list logistics objects: %w", err)
	}
	defer cursor.Close(ctx)

	var los []*domain.LogisticsObject
	err = cursor.All(ctx, &los)
	r.record("find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode logistics objects: %w", err)
	}
	return los, nil
}

// FindOne returns the logistics object with the given loId owned by a company
func (r *LogisticsObjectRepository) FindOne(ctx context.Context, companyID, loID string) (*domain.LogisticsObject, error) {
	start := time.Now()

	var lo domain.LogisticsObject
	err := r.collection.FindOne(ctx, bson.M{"companyId": companyID, "loId": loID}).Decode(&lo)
	r.record("findOne", start, err)

	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrLogisticsObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find logistics object: %w", err)
	}
	return &lo, nil
}

// UpdateContent replaces the stored content of a logistics object
func (r *LogisticsObjectRepository) UpdateContent(ctx context.Context, companyID, loID string, content domain.Document) error {
	start := time.Now()

	update := bson.M{"$set": bson.M{
		"logisticsObject": content,
		"updatedAt":       time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"companyId": companyID, "loId": loID}, update)
	r.record("updateOne", start, err)

	if err != nil {
		return fmt.Errorf("failed to update logistics object: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrLogisticsObjectNotFound
	}
	return nil
}

// Delete removes a logistics object owned by a company
func (r *LogisticsObjectRepository) Delete(ctx context.Context, companyID, loID string) error {
	start := time.Now()

	result, err := r.collection.DeleteOne(ctx, bson.M{"companyId": companyID, "loId": loID})
	r.record("deleteOne", start, err)

	if err != nil {
		return fmt.Errorf("failed to delete logistics object: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrLogisticsObjectNotFound
	}
	return nil
}

// DeleteByCompany removes every logistics object owned by a company
func (r *LogisticsObjectRepository) DeleteByCompany(ctx context.Context, companyID string) error {
	start := time.Now()

	_, err := r.collection.DeleteMany(ctx, bson.M{"companyId": companyID})
	r.record("deleteMany", start, err)

	if err != nil {
		return fmt.Errorf("failed to delete logistics objects: %w", err)
	}
	return nil
}
