// Package db provides document database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"fmt"
	"time"

	"lms_backend/platform/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the route groups and webhook handlers.
const (
	CollectionUsers         = "users"
	CollectionCourses       = "courses"
	CollectionPurchases     = "purchases"
	CollectionWebhookEvents = "webhook_events"
)

// Client holds the process-wide database connection.
// The underlying mongo.Client is safe for concurrent use.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect opens a connection and blocks until the primary answers a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.GetMongoURI()).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Minute)

	// Fail within the caller's deadline instead of the driver's 30s default.
	if deadline, ok := ctx.Deadline(); ok {
		opts.SetServerSelectionTimeout(time.Until(deadline))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return NewClient(client, cfg.GetMongoDatabase()), nil
}

// NewClient wraps an already connected client and selects the named database.
func NewClient(client *mongo.Client, database string) *Client {
	return &Client{
		client:   client,
		database: client.Database(database),
	}
}

// Database returns the application database handle.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Ping checks the primary is reachable; used by readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client and releases pooled connections.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// IDFilter returns the _id value to match for an ID taken from a URL or a
// payload. Documents may carry ObjectIDs or plain string IDs.
func IDFilter(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}
