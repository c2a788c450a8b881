package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/metrics"
)

const inboundCollection = "losFromPublishers"

// InboundRepository persists logistics objects received from publishers
type InboundRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewInboundRepository creates a new InboundRepository and ensures its indexes
func NewInboundRepository(db *mongo.Database, m *metrics.Metrics) *InboundRepository {
	repo := &InboundRepository{
		collection: db.Collection(inboundCollection),
		metrics:    m,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *InboundRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	index := mongo.IndexModel{Keys: bson.D{{Key: "topic", Value: 1}}}
	_, _ = r.collection.Indexes().CreateOne(ctx, index)
}

func (r *InboundRepository) record(operation string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.RecordMongoDBOperation(inboundCollection, operation, err == nil, time.Since(start))
	}
}

// Insert appends a received notification record
func (r *InboundRepository) Insert(ctx context.Context, rec *domain.InboundRecord) error {
	start := time.Now()

	rec.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, rec)
	r.record("insert", start, err)

	if err != nil {
		return fmt.Errorf("failed to insert inbound record: %w", err)
	}
	return nil
}

// FindAll returns every received record
func (r *InboundRepository) FindAll(ctx context.Context) ([]*domain.InboundRecord, error) {
	return r.find(ctx, bson.M{})
}

// FindByTopic returns the received records for a topic
func (r *InboundRepository) FindByTopic(ctx context.Context, topic string) ([]*domain.InboundRecord, error) {
	return r.find(ctx, bson.M{"topic": topic})
}

func (r *InboundRepository) find(ctx context.Context, filter bson.M) ([]*domain.InboundRecord, error) {
	start := time.Now()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		r.record("find", start, err)
		return nil, fmt.Errorf("failed to list inbound records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.InboundRecord
	err = cursor.All(ctx, &records)
	r.record("find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode inbound records: %w", err)
	}
	return records, nil
}
