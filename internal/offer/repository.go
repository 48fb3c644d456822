package offer

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence contract for offers. Lookups return
// (nil, nil) when no document matches.
type Store interface {
	FindByID(ctx context.Context, id string) (*Offer, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Offer, error)
	FindPage(ctx context.Context, limit, skip int) ([]*Offer, error)
	FindPremiumByCity(ctx context.Context, city string, limit, skip int) ([]*Offer, error)
	Insert(ctx context.Context, o *Offer) (*Offer, error)
	Update(ctx context.Context, id string, upd Update) (*Offer, error)
	Delete(ctx context.Context, id string) error
}

// Update carries the partial fields an offer update may set. Nil
// pointers and nil slices leave the stored value unchanged.
type Update struct {
	Title        *string
	Description  *string
	City         *City
	PreviewImage *string
	Images       []string
	IsPremium    *bool
	Type         *HousingType
	Bedrooms     *int
	MaxGuests    *int
	Price        *int
	Amenities    []Amenity
	Coordinates  *Coordinates
}

// Repository is the MongoDB-backed Store.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates an offer repository over the given collection.
func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// FindByID returns an offer by its ObjectID hex, or (nil, nil) if missing.
func (r *Repository) FindByID(ctx context.Context, id string) (*Offer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parsing offer id %q: %w", id, err)
	}

	var o Offer
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying offer %s: %w", id, err)
	}

	return &o, nil
}

// FindByIDs returns the offers matching the given ids. Missing ids are
// silently absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*Offer, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("parsing offer id %q: %w", id, err)
		}
		oids = append(oids, oid)
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("querying offers: %w", err)
	}

	var offers []*Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("decoding offers: %w", err)
	}

	return offers, nil
}

// FindPage returns a page of offers, newest publication first.
func (r *Repository) FindPage(ctx context.Context, limit, skip int) ([]*Offer, error) {
	return r.find(ctx, bson.M{}, limit, skip)
}

// FindPremiumByCity returns a page of premium offers in the given city.
func (r *Repository) FindPremiumByCity(ctx context.Context, city string, limit, skip int) ([]*Offer, error) {
	return r.find(ctx, bson.M{"city": city, "isPremium": true}, limit, skip)
}

func (r *Repository) find(ctx context.Context, filter bson.M, limit, skip int) ([]*Offer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publicationDate", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}

	var offers []*Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("decoding offers: %w", err)
	}

	return offers, nil
}

// Insert stores a new offer and returns it with its generated id.
func (r *Repository) Insert(ctx context.Context, o *Offer) (*Offer, error) {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	result, err := r.coll.InsertOne(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("inserting offer: %w", err)
	}

	o.ID = result.InsertedID.(primitive.ObjectID)
	return o, nil
}

// Update applies the supplied fields and returns the updated offer, or
// (nil, nil) if the offer no longer exists.
func (r *Repository) Update(ctx context.Context, id string, upd Update) (*Offer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parsing offer id %q: %w", id, err)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.City != nil {
		set["city"] = *upd.City
	}
	if upd.PreviewImage != nil {
		set["previewImage"] = *upd.PreviewImage
	}
	if upd.Images != nil {
		set["images"] = upd.Images
	}
	if upd.IsPremium != nil {
		set["isPremium"] = *upd.IsPremium
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Bedrooms != nil {
		set["bedrooms"] = *upd.Bedrooms
	}
	if upd.MaxGuests != nil {
		set["maxGuests"] = *upd.MaxGuests
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Amenities != nil {
		set["amenities"] = upd.Amenities
	}
	if upd.Coordinates != nil {
		set["coordinates"] = *upd.Coordinates
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o Offer
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating offer %s: %w", id, err)
	}

	return &o, nil
}

// Delete removes an offer. Deleting a missing offer is not an error;
// the service checks existence first.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parsing offer id %q: %w", id, err)
	}

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("deleting offer %s: %w", id, err)
	}

	return nil
}
