package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCloseTimeout = 5 * time.Second

// MongoStore persists memories in a MongoDB collection, one document per
// user keyed by _id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB with the given URI and uses the named
// database and collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		database = "recall"
	}
	if collection == "" {
		collection = "memories"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Read(ctx context.Context, userID string) (string, error) {
	var doc struct {
		Content string `bson:"content"`
	}
	err := s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read memory: %w", err)
	}
	return doc.Content, nil
}

func (s *MongoStore) Write(ctx context.Context, userID, content string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"content":    content,
			"updated_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("write memory: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]string, error) {
	ids, err := s.collection.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := id.(string); ok {
			users = append(users, s)
		}
	}
	return users, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
