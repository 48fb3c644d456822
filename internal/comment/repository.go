package comment

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence contract for comments and their aggregates.
type Store interface {
	Insert(ctx context.Context, c *Comment) (*Comment, error)
	FindByOffer(ctx context.Context, offerID string, limit, skip int) ([]*Comment, error)
	DeleteByOffer(ctx context.Context, offerID string) error
	RatingByOffer(ctx context.Context, offerID string) (Stats, error)
	RatingByOffers(ctx context.Context, offerIDs []string) (map[string]Stats, error)
}

// Repository is the MongoDB-backed Store.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a comment repository over the given collection.
func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// Insert stores a new comment with a server-assigned creation time.
func (r *Repository) Insert(ctx context.Context, c *Comment) (*Comment, error) {
	c.CreatedAt = time.Now().UTC()

	result, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	c.ID = result.InsertedID.(primitive.ObjectID)
	return c, nil
}

// FindByOffer returns up to limit comments for an offer, newest first,
// skipping skip.
func (r *Repository) FindByOffer(ctx context.Context, offerID string, limit, skip int) ([]*Comment, error) {
	oid, err := primitive.ObjectIDFromHex(offerID)
	if err != nil {
		return nil, fmt.Errorf("parsing offer id %q: %w", offerID, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := r.coll.Find(ctx, bson.M{"offerId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	var comments []*Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decoding comments: %w", err)
	}

	return comments, nil
}

// DeleteByOffer removes every comment belonging to an offer.
func (r *Repository) DeleteByOffer(ctx context.Context, offerID string) error {
	oid, err := primitive.ObjectIDFromHex(offerID)
	if err != nil {
		return fmt.Errorf("parsing offer id %q: %w", offerID, err)
	}

	if _, err := r.coll.DeleteMany(ctx, bson.M{"offerId": oid}); err != nil {
		return fmt.Errorf("deleting comments: %w", err)
	}

	return nil
}

// statsGroup is one $group result row.
type statsGroup struct {
	ID     primitive.ObjectID `bson:"_id"`
	Count  int                `bson:"count"`
	Rating float64            `bson:"rating"`
}

// RatingByOffer aggregates count and average rating for one offer.
// An offer with no comments yields the zero Stats.
func (r *Repository) RatingByOffer(ctx context.Context, offerID string) (Stats, error) {
	stats, err := r.RatingByOffers(ctx, []string{offerID})
	if err != nil {
		return Stats{}, err
	}
	return stats[offerID], nil
}

// RatingByOffers aggregates count and average rating for all the given
// offers in a single query, grouped by offer id. Offers with no
// comments are absent from the result map.
func (r *Repository) RatingByOffers(ctx context.Context, offerIDs []string) (map[string]Stats, error) {
	oids := make([]primitive.ObjectID, 0, len(offerIDs))
	for _, id := range offerIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("parsing offer id %q: %w", id, err)
		}
		oids = append(oids, oid)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"offerId": bson.M{"$in": oids}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$offerId",
			"count":  bson.M{"$sum": 1},
			"rating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating comment stats: %w", err)
	}

	var groups []statsGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decoding comment stats: %w", err)
	}

	stats := make(map[string]Stats, len(groups))
	for _, g := range groups {
		stats[g.ID.Hex()] = Stats{Count: g.Count, Rating: g.Rating}
	}

	return stats, nil
}
