// Package db persists discovery output: creator profiles in MongoDB and flat
// discovery records in Postgres. Either backend is optional; the pipeline
// runs with whatever is configured.
package db

import (
	"context"
	"fmt"

	"creator-scout/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreatorStore wraps the MongoDB client and the creators collection.
type CreatorStore struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// NewCreatorStore creates a new store client.
func NewCreatorStore(connectionString, databaseName, collectionName string) *CreatorStore {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return store with nil - error will be caught during Connect()
		return &CreatorStore{}
	}

	database := mongoClient.Database(databaseName)
	collection := database.Collection(collectionName)

	return &CreatorStore{
		mongoClient: mongoClient,
		database:    database,
		collection:  collection,
	}
}

// Connect establishes connection to MongoDB
func (s *CreatorStore) Connect(ctx context.Context) error {
	if s.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return s.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (s *CreatorStore) Close(ctx context.Context) error {
	if s.mongoClient == nil {
		return nil
	}
	return s.mongoClient.Disconnect(ctx)
}

// SaveCreator upserts a creator profile, keyed by channel id so re-discovery
// refreshes the stored stats instead of duplicating the document.
func (s *CreatorStore) SaveCreator(ctx context.Context, creator *domain.Creator) error {
	if s.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"channel_id": creator.ChannelID}
	update := bson.M{"$set": creator}
	opts := options.Update().SetUpsert(true)

	_, err := s.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// AllHandles fetches every stored creator handle, used to seed the dedup
// registry at the start of a run.
func (s *CreatorStore) AllHandles(ctx context.Context) ([]string, error) {
	if s.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"handle": 1, "_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to query handles: %w", err)
	}
	defer cursor.Close(ctx)

	var handles []string
	for cursor.Next(ctx) {
		var result struct {
			Handle string `bson:"handle"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue // Skip invalid documents
		}
		if result.Handle != "" {
			handles = append(handles, result.Handle)
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return handles, nil
}
