package offer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/apperr"
)

// Default page sizes, matching the public API contract.
const (
	DefaultLimit        = 60
	DefaultPremiumLimit = 3
)

// CommentDeleter removes an offer's comments when the offer is deleted.
type CommentDeleter interface {
	DeleteByOffer(ctx context.Context, offerID string) error
}

// Service provides offer business operations on top of the store and
// the enrichment pipeline.
type Service struct {
	store    Store
	enricher *Enricher
	comments CommentDeleter
}

// NewService creates an offer service.
func NewService(store Store, enricher *Enricher, comments CommentDeleter) *Service {
	return &Service{store: store, enricher: enricher, comments: comments}
}

// Enricher exposes the enrichment pipeline for collaborating services.
func (s *Service) Enricher() *Enricher {
	return s.enricher
}

// List returns a page of offers enriched for the viewer. viewerID may
// be empty. A non-positive limit falls back to DefaultLimit.
func (s *Service) List(ctx context.Context, viewerID string, limit, skip int) ([]*Enriched, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if skip < 0 {
		skip = 0
	}

	offers, err := s.store.FindPage(ctx, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}

	return s.enricher.EnrichAll(ctx, offers, viewerID)
}

// Premium returns a page of premium offers in the given city, enriched
// for the viewer. A non-positive limit falls back to DefaultPremiumLimit.
func (s *Service) Premium(ctx context.Context, viewerID, city string, limit, skip int) ([]*Enriched, error) {
	if !ValidCity(city) {
		return nil, apperr.Validation("unknown city %q", city)
	}
	if limit <= 0 {
		limit = DefaultPremiumLimit
	}
	if skip < 0 {
		skip = 0
	}

	offers, err := s.store.FindPremiumByCity(ctx, city, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("listing premium offers: %w", err)
	}

	return s.enricher.EnrichAll(ctx, offers, viewerID)
}

// Get returns one offer enriched for the viewer.
func (s *Service) Get(ctx context.Context, viewerID, id string) (*Enriched, error) {
	o, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading offer: %w", err)
	}
	if o == nil {
		return nil, apperr.NotFound("offer not found")
	}

	return s.enricher.Enrich(ctx, o, viewerID)
}

// Exists reports whether an offer exists, as a NotFound error when it
// doesn't. Comment routes use it to vet their parent offer without
// paying for enrichment.
func (s *Service) Exists(ctx context.Context, id string) error {
	o, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading offer: %w", err)
	}
	if o == nil {
		return apperr.NotFound("offer not found")
	}
	return nil
}

// Create stores a new offer authored by authorID and returns it
// enriched for the author. A fresh offer has no comments and is not in
// anybody's favorites yet.
func (s *Service) Create(ctx context.Context, authorID string, req CreateRequest) (*Enriched, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	author, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, apperr.Validation("malformed user id %q", authorID)
	}

	amenities := make([]Amenity, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		amenities = append(amenities, Amenity(a))
	}

	o, err := s.store.Insert(ctx, &Offer{
		Title:           req.Title,
		Description:     req.Description,
		PublicationDate: time.Now().UTC(),
		City:            City(req.City),
		PreviewImage:    req.PreviewImage,
		Images:          req.Images,
		IsPremium:       req.IsPremium,
		Type:            HousingType(req.Type),
		Bedrooms:        req.Bedrooms,
		MaxGuests:       req.MaxGuests,
		Price:           req.Price,
		Amenities:       amenities,
		AuthorID:        author,
		Coordinates:     *req.Coordinates,
	})
	if err != nil {
		return nil, fmt.Errorf("creating offer: %w", err)
	}

	slog.Info("offer created", "id", o.ID.Hex(), "author", authorID)

	return s.enricher.Enrich(ctx, o, authorID)
}

// Update applies a partial update to an offer owned by actorID and
// returns it enriched for the actor.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateRequest) (*Enriched, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.loadForMutation(ctx, actorID, id); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, toUpdate(req))
	if err != nil {
		return nil, fmt.Errorf("updating offer: %w", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("offer not found")
	}

	slog.Info("offer updated", "id", id)

	return s.enricher.Enrich(ctx, updated, actorID)
}

// Delete removes an offer owned by actorID and then its comments. The
// two deletes are separate operations: a cascade failure after the
// offer delete leaves orphaned comments behind.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.loadForMutation(ctx, actorID, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting offer: %w", err)
	}

	if err := s.comments.DeleteByOffer(ctx, id); err != nil {
		// The offer is already gone; its comments are now orphaned.
		slog.Error("cascade delete of comments failed", "offer", id, "error", err)
		return fmt.Errorf("deleting offer comments: %w", err)
	}

	slog.Info("offer deleted", "id", id)
	return nil
}

// loadForMutation fetches the target offer and runs the ownership
// guard. A missing offer is NotFound, checked before ownership: a
// nonexistent target can't be authorized against.
func (s *Service) loadForMutation(ctx context.Context, actorID, id string) (*Offer, error) {
	o, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading offer: %w", err)
	}
	if o == nil {
		return nil, apperr.NotFound("offer not found")
	}

	if err := authorizeMutation(o, actorID); err != nil {
		return nil, err
	}

	return o, nil
}

// authorizeMutation gates offer mutation to the offer's author.
func authorizeMutation(o *Offer, requesterID string) error {
	if o.AuthorID.Hex() != requesterID {
		return apperr.Forbidden("only the author can modify this offer")
	}
	return nil
}

func toUpdate(req UpdateRequest) Update {
	upd := Update{
		Title:        req.Title,
		Description:  req.Description,
		PreviewImage: req.PreviewImage,
		Images:       req.Images,
		IsPremium:    req.IsPremium,
		Bedrooms:     req.Bedrooms,
		MaxGuests:    req.MaxGuests,
		Price:        req.Price,
		Coordinates:  req.Coordinates,
	}
	if req.City != nil {
		city := City(*req.City)
		upd.City = &city
	}
	if req.Type != nil {
		ht := HousingType(*req.Type)
		upd.Type = &ht
	}
	if req.Amenities != nil {
		amenities := make([]Amenity, 0, len(req.Amenities))
		for _, a := range req.Amenities {
			amenities = append(amenities, Amenity(a))
		}
		upd.Amenities = amenities
	}
	return upd
}
