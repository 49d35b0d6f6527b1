package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/concreto/internal/domain/models"
)

// ErrEmptyOwner is returned when a record or query has no owner.
var ErrEmptyOwner = errors.New("owner id must not be empty")

// Repository defines the mix history storage operations.
type Repository interface {
	Save(ctx context.Context, record models.MixRecord) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.MixRecord, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]models.MixRecord, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDBRepository connects, verifies the connection and makes sure the owner index exists.
func NewMongoDBRepository(ctx context.Context, uri, dbName, collName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client:     client,
		collection: client.Database(dbName).Collection(collName),
	}

	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// EnsureIndexes creates the compound index serving owner history queries.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("user_id_date"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("date"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create mix history indexes: %w", err)
	}
	return nil
}

// Save inserts a mix record and returns its id.
func (r *MongoDBRepository) Save(ctx context.Context, record models.MixRecord) (string, error) {
	if record.OwnerID == "" {
		return "", ErrEmptyOwner
	}
	if record.ID == "" {
		return "", errors.New("record id must be assigned before saving")
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert mix record: %w", err)
	}
	return record.ID, nil
}

// ListByOwner returns an owner's records, newest first.
func (r *MongoDBRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.MixRecord, error) {
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return r.find(ctx, bson.M{"user_id": ownerID}, opts)
}

// ListBetween returns all records created in [start, end), oldest first.
func (r *MongoDBRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.MixRecord, error) {
	filter := bson.M{"date": bson.M{"$gte": start, "$lt": end}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoDBRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.MixRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query mix history: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.MixRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode mix history: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
