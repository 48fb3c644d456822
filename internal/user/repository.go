package user

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the persistence contract for users and their favorites set.
// Lookups return (nil, nil) when no document matches.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, u *User) (*User, error)
	SetAvatar(ctx context.Context, id, avatar string) error
	AddFavorite(ctx context.Context, userID, offerID string) error
	RemoveFavorite(ctx context.Context, userID, offerID string) error
	IsFavorite(ctx context.Context, userID, offerID string) (bool, error)
	FavoriteSet(ctx context.Context, userID string, offerIDs []string) (map[string]bool, error)
	FavoriteIDs(ctx context.Context, userID string) ([]string, error)
}

// Repository is the MongoDB-backed Store.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a user repository over the given collection.
func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// FindByID returns a user by its ObjectID hex, or (nil, nil) if missing.
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parsing user id %q: %w", id, err)
	}

	var u User
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}

	return &u, nil
}

// FindByIDs returns the users matching the given ids. Missing ids are
// silently absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("parsing user id %q: %w", id, err)
		}
		oids = append(oids, oid)
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}

	var users []*User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	return users, nil
}

// FindByEmail returns a user by email, or (nil, nil) if missing.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return &u, nil
}

// Insert stores a new user and returns it with its generated id.
func (r *Repository) Insert(ctx context.Context, u *User) (*User, error) {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Favorites == nil {
		u.Favorites = []primitive.ObjectID{}
	}

	result, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	u.ID = result.InsertedID.(primitive.ObjectID)
	return u, nil
}

// SetAvatar updates the user's avatar path.
func (r *Repository) SetAvatar(ctx context.Context, id, avatar string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parsing user id %q: %w", id, err)
	}

	update := bson.M{"$set": bson.M{"avatar": avatar, "updatedAt": time.Now().UTC()}}
	result, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("updating avatar: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", id)
	}

	return nil
}

// AddFavorite adds offerID to the user's favorites set.
// Adding an already present id is a no-op.
func (r *Repository) AddFavorite(ctx context.Context, userID, offerID string) error {
	uid, oid, err := parseIDPair(userID, offerID)
	if err != nil {
		return err
	}

	update := bson.M{"$addToSet": bson.M{"favorites": oid}}
	if _, err := r.coll.UpdateByID(ctx, uid, update); err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}

	return nil
}

// RemoveFavorite removes offerID from the user's favorites set.
// Removing an absent id is a no-op.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, offerID string) error {
	uid, oid, err := parseIDPair(userID, offerID)
	if err != nil {
		return err
	}

	update := bson.M{"$pull": bson.M{"favorites": oid}}
	if _, err := r.coll.UpdateByID(ctx, uid, update); err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}

	return nil
}

// IsFavorite reports whether offerID is in the user's favorites set.
func (r *Repository) IsFavorite(ctx context.Context, userID, offerID string) (bool, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}

	oid, err := primitive.ObjectIDFromHex(offerID)
	if err != nil {
		return false, fmt.Errorf("parsing offer id %q: %w", offerID, err)
	}

	for _, fav := range u.Favorites {
		if fav == oid {
			return true, nil
		}
	}
	return false, nil
}

// FavoriteSet returns the membership of offerIDs in the user's favorites,
// keyed by offer id. Every requested id appears in the result.
func (r *Repository) FavoriteSet(ctx context.Context, userID string, offerIDs []string) (map[string]bool, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorites := make(map[string]bool, len(offerIDs))
	for _, id := range offerIDs {
		favorites[id] = false
	}
	if u == nil {
		return favorites, nil
	}

	for _, fav := range u.Favorites {
		hex := fav.Hex()
		if _, ok := favorites[hex]; ok {
			favorites[hex] = true
		}
	}

	return favorites, nil
}

// FavoriteIDs returns the user's favorites as offer id hexes.
func (r *Repository) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	ids := make([]string, 0, len(u.Favorites))
	for _, fav := range u.Favorites {
		ids = append(ids, fav.Hex())
	}
	return ids, nil
}

func parseIDPair(userID, offerID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("parsing user id %q: %w", userID, err)
	}
	oid, err := primitive.ObjectIDFromHex(offerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("parsing offer id %q: %w", offerID, err)
	}
	return uid, oid, nil
}
