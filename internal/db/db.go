// Package db provides MongoDB connection setup and collection access.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Collection names used by the repositories.
const (
	OffersCollection   = "offers"
	UsersCollection    = "users"
	CommentsCollection = "comments"
)

// DB wraps a connected Mongo client and the service database.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Open connects to MongoDB at uri, pings it, and ensures indexes.
func Open(ctx context.Context, uri, name string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		if dcErr := client.Disconnect(ctx); dcErr != nil {
			return nil, fmt.Errorf("pinging mongodb: %w (also failed to disconnect: %v)", err, dcErr)
		}
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	d := &DB{client: client, database: client.Database(name)}

	if err := d.ensureIndexes(ctx); err != nil {
		if dcErr := client.Disconnect(ctx); dcErr != nil {
			return nil, fmt.Errorf("%w (also failed to disconnect: %v)", err, dcErr)
		}
		return nil, err
	}

	return d, nil
}

// Collection returns a handle for the named collection.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.database.Collection(name)
}

// Close disconnects from MongoDB.
func (d *DB) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from mongodb: %w", err)
	}
	return nil
}
