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

const usersCollection = "users"

// UserRepository persists user accounts in MongoDB
type UserRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

// NewUserRepository creates a new UserRepository and ensures its indexes
func NewUserRepository(db *mongo.Database, m *metrics.Metrics) *UserRepository {
	repo := &UserRepository{
		collection: db.Collection(usersCollection),
		metrics:    m,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *UserRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, index)
}

func (r *UserRepository) record(operation string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.RecordMongoDBOperation(usersCollection, operation, err == nil, time.Since(start))
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	start := time.Now()

	user.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, user)
	r.record("insert", start, err)

	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByUsername returns the user with the given username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	r.record("findOne", start, err)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
