package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yoyowasi/ar-memo-backend/internal/store"
)

// Open connects to MongoDB and verifies connectivity.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// New constructs a Mongo-backed store over the given database.
func New(db *mongo.Database) store.Store { return &mongoStore{db: db} }

type mongoStore struct{ db *mongo.Database }

func (s *mongoStore) Memories() store.Memories       { return &memories{c: s.db.Collection("memories")} }
func (s *mongoStore) Groups() store.Groups           { return &groups{c: s.db.Collection("groups")} }
func (s *mongoStore) TripRecords() store.TripRecords { return &tripRecords{c: s.db.Collection("tripRecords")} }

// HealthPing implements health probing for the Mongo-backed store.
func (s *mongoStore) HealthPing(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// Pinger returns a health probe bound to the client, for the /health handler.
func Pinger(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

// EnsureIndexes creates the indexes the geo queries depend on. Safe to run on
// every startup; MongoDB treats existing definitions as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("memories").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "groupId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "tags", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "members", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("tripRecords").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "groupId", Value: 1}, {Key: "date", Value: -1}}},
	})
	return err
}
