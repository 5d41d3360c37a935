package database

import (
	"context"
	"fmt"
	"time"

	"github.com/content-publishing-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo holds the client and the visitor event collection
type Mongo struct {
	client  *mongo.Client
	Visitor *mongo.Collection
	log     zerolog.Logger
}

// NewMongo connects to MongoDB and prepares the visitor collection
func NewMongo(cfg *config.MongoConfig, log zerolog.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := &Mongo{
		client:  client,
		Visitor: client.Database(cfg.Database).Collection(cfg.Collection),
		log:     log.With().Str("component", "mongo").Logger(),
	}

	// Aggregation groups and sorts on date
	_, err = m.Visitor.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}},
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to create visitor date index")
	}

	m.log.Info().
		Str("database", cfg.Database).
		Str("collection", cfg.Collection).
		Msg("MongoDB connection established")

	return m, nil
}

// HealthCheck verifies the MongoDB connection is healthy
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
