// Package db manages MongoDB connections and collections.
package db

import (
	"context" // For connection timeout/cancellation
	"fmt"     // Error formatting
	"time"    // Duration for timeouts

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"          // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options"  // MongoDB options
	"go.mongodb.org/mongo-driver/v2/mongo/readpref" // MongoDB read preference
)

// Collection names. Rooms and messages must live in the same database so a
// single database-level change stream can follow both.
const (
	RoomsCollection    = "rooms"
	MessagesCollection = "messages"
	UsersCollection    = "users"
)

// Client wraps mongo.Client and exposes collections.
type Client struct {
	// client is the underlying MongoDB connection (thread-safe, can be reused)
	client *mongo.Client

	// db holds the rooms, messages and users collections
	db *mongo.Database
}

// New connects to MongoDB and returns a Client for the named database.
// Change streams, which back live subscriptions, need a replica set or a
// sharded cluster; a standalone server accepts writes but cannot be watched.
func New(ctx context.Context, mongoURI, database string) (*Client, error) {
	// SetConnectTimeout: fail fast if MongoDB is unreachable
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(10 * time.Second)

	// This doesn't actually connect yet, just creates the client
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// This is the actual connection test
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Database returns the database holding the chat collections.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// RoomsCollection returns the rooms collection.
func (c *Client) RoomsCollection() *mongo.Collection {
	return c.db.Collection(RoomsCollection)
}

// MessagesCollection returns the messages collection.
func (c *Client) MessagesCollection() *mongo.Collection {
	return c.db.Collection(MessagesCollection)
}

// UsersCollection returns the users collection read by the presence directory.
func (c *Client) UsersCollection() *mongo.Collection {
	return c.db.Collection(UsersCollection)
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// roomIndexes lists the rooms indexes. Inbox order comes from each room's
// last message, so nothing sorts rooms by activity on the server.
func roomIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// Multikey index on the participant pair
			// Used by: RoomsFor()
			Keys: bson.D{{Key: "participants", Value: 1}},
		},
	}
}

func messageIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// (room_id, seq) is the append order of a room log and must be unique
			// Used by: Messages(), LastMessage()
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "seq", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

// CreateIndexes creates the indexes used by room and message queries.
func (c *Client) CreateIndexes(ctx context.Context) error {
	if _, err := c.RoomsCollection().Indexes().CreateMany(ctx, roomIndexes()); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}
	if _, err := c.MessagesCollection().Indexes().CreateMany(ctx, messageIndexes()); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}
