package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexSpec pairs a collection with the indexes it needs.
type indexSpec struct {
	collection string
	models     []mongo.IndexModel
}

// indexes the repositories rely on: unique user emails, premium-by-city
// offer scans, and per-offer comment lookups/aggregations.
var indexes = []indexSpec{
	{
		collection: UsersCollection,
		models: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	},
	{
		collection: OffersCollection,
		models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "city", Value: 1}, {Key: "isPremium", Value: 1}}},
		},
	},
	{
		collection: CommentsCollection,
		models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "offerId", Value: 1}}},
		},
	},
}

// ensureIndexes creates all indexes. Creation is idempotent.
func (d *DB) ensureIndexes(ctx context.Context) error {
	for _, spec := range indexes {
		coll := d.database.Collection(spec.collection)
		if _, err := coll.Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("creating indexes for %s: %w", spec.collection, err)
		}
	}
	return nil
}
