package offer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/avolkov/six-cities/internal/apperr"
	"github.com/avolkov/six-cities/internal/comment"
	"github.com/avolkov/six-cities/internal/user"
)

// UserStore is the slice of the user store the enrichment pipeline
// needs: author expansion and favorites membership.
type UserStore interface {
	FindByIDs(ctx context.Context, ids []string) ([]*user.User, error)
	IsFavorite(ctx context.Context, userID, offerID string) (bool, error)
	FavoriteSet(ctx context.Context, userID string, offerIDs []string) (map[string]bool, error)
}

// CommentStats is the slice of the comment store the enrichment
// pipeline needs: per-offer count and average rating.
type CommentStats interface {
	RatingByOffer(ctx context.Context, offerID string) (comment.Stats, error)
	RatingByOffers(ctx context.Context, offerIDs []string) (map[string]comment.Stats, error)
}

// Enriched is the response shape of an offer: the stored fields plus
// the viewer-relative and aggregate-derived ones.
type Enriched struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	PublicationDate time.Time   `json:"publicationDate"`
	City            City        `json:"city"`
	PreviewImage    string      `json:"previewImage"`
	Images          []string    `json:"images"`
	IsPremium       bool        `json:"isPremium"`
	IsFavorite      bool        `json:"isFavorite"`
	Rating          float64     `json:"rating"`
	Type            HousingType `json:"type"`
	Bedrooms        int         `json:"bedrooms"`
	MaxGuests       int         `json:"maxGuests"`
	Price           int         `json:"price"`
	Amenities       []Amenity   `json:"amenities"`
	Author          user.Public `json:"author"`
	CommentsCount   int         `json:"commentsCount"`
	Coordinates     Coordinates `json:"coordinates"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Enricher computes the derived offer fields: isFavorite for the
// viewer, average comment rating and comment count.
type Enricher struct {
	users    UserStore
	comments CommentStats
}

// NewEnricher creates an enricher.
func NewEnricher(users UserStore, comments CommentStats) *Enricher {
	return &Enricher{users: users, comments: comments}
}

// Enrich fills in the derived fields for a single offer. viewerID may
// be empty for an anonymous read, in which case isFavorite is false.
func (e *Enricher) Enrich(ctx context.Context, o *Offer, viewerID string) (*Enriched, error) {
	isFavorite := false
	if viewerID != "" {
		fav, err := e.users.IsFavorite(ctx, viewerID, o.ID.Hex())
		if err != nil {
			return nil, fmt.Errorf("checking favorite: %w", err)
		}
		isFavorite = fav
	}

	stats, err := e.comments.RatingByOffer(ctx, o.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("loading comment stats: %w", err)
	}

	author, err := e.loadAuthors(ctx, []*Offer{o})
	if err != nil {
		return nil, err
	}

	return toEnriched(o, author[o.AuthorID.Hex()], isFavorite, stats), nil
}

// EnrichAll fills in the derived fields for a batch of offers with a
// constant number of extra queries: one favorites membership lookup,
// one grouped comment aggregate, and one author fetch. Results are
// associated by offer id, never positionally, because the aggregate
// may return a subset of ids in any order.
func (e *Enricher) EnrichAll(ctx context.Context, offers []*Offer, viewerID string) ([]*Enriched, error) {
	if len(offers) == 0 {
		return []*Enriched{}, nil
	}

	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID.Hex())
	}

	favorites := map[string]bool{}
	if viewerID != "" {
		fav, err := e.users.FavoriteSet(ctx, viewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("loading favorites membership: %w", err)
		}
		favorites = fav
	}

	stats, err := e.comments.RatingByOffers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading comment stats: %w", err)
	}

	authors, err := e.loadAuthors(ctx, offers)
	if err != nil {
		return nil, err
	}

	enriched := make([]*Enriched, 0, len(offers))
	for _, o := range offers {
		hex := o.ID.Hex()
		// Ids absent from the aggregate default to zero stats.
		enriched = append(enriched, toEnriched(o, authors[o.AuthorID.Hex()], favorites[hex], stats[hex]))
	}

	return enriched, nil
}

// loadAuthors fetches the public view of every distinct offer author.
// Each offer's author reference must resolve; a dangling reference is a
// data integrity failure, not a missing resource.
func (e *Enricher) loadAuthors(ctx context.Context, offers []*Offer) (map[string]user.Public, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, o := range offers {
		hex := o.AuthorID.Hex()
		if !seen[hex] {
			seen[hex] = true
			ids = append(ids, hex)
		}
	}

	users, err := e.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading offer authors: %w", err)
	}

	authors := make(map[string]user.Public, len(users))
	for _, u := range users {
		authors[u.ID.Hex()] = u.Public()
	}

	for _, o := range offers {
		if _, ok := authors[o.AuthorID.Hex()]; !ok {
			return nil, apperr.Internal(fmt.Errorf("offer %s author %s does not resolve", o.ID.Hex(), o.AuthorID.Hex()))
		}
	}

	return authors, nil
}

// roundRating rounds an average rating to 1 decimal place. Rounding
// happens here, at the presentation boundary, after the sum/count
// division.
func roundRating(rating float64) float64 {
	return math.Round(rating*10) / 10
}

func toEnriched(o *Offer, author user.Public, isFavorite bool, stats comment.Stats) *Enriched {
	return &Enriched{
		ID:              o.ID.Hex(),
		Title:           o.Title,
		Description:     o.Description,
		PublicationDate: o.PublicationDate,
		City:            o.City,
		PreviewImage:    o.PreviewImage,
		Images:          o.Images,
		IsPremium:       o.IsPremium,
		IsFavorite:      isFavorite,
		Rating:          roundRating(stats.Rating),
		Type:            o.Type,
		Bedrooms:        o.Bedrooms,
		MaxGuests:       o.MaxGuests,
		Price:           o.Price,
		Amenities:       o.Amenities,
		Author:          author,
		CommentsCount:   stats.Count,
		Coordinates:     o.Coordinates,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
