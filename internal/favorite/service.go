// Package favorite maintains the per-user set of favorited offers.
package favorite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avolkov/six-cities/internal/apperr"
	"github.com/avolkov/six-cities/internal/offer"
)

// OfferReader is the slice of the offer store the favorites service
// needs.
type OfferReader interface {
	FindByID(ctx context.Context, id string) (*offer.Offer, error)
	FindByIDs(ctx context.Context, ids []string) ([]*offer.Offer, error)
}

// FavoritesStore mutates and reads a user's favorites set.
type FavoritesStore interface {
	AddFavorite(ctx context.Context, userID, offerID string) error
	RemoveFavorite(ctx context.Context, userID, offerID string) error
	FavoriteIDs(ctx context.Context, userID string) ([]string, error)
}

// Service provides favorites membership operations. Both add and
// remove are idempotent set mutations.
type Service struct {
	favorites FavoritesStore
	offers    OfferReader
	enricher  *offer.Enricher
}

// NewService creates a favorites service.
func NewService(favorites FavoritesStore, offers OfferReader, enricher *offer.Enricher) *Service {
	return &Service{favorites: favorites, offers: offers, enricher: enricher}
}

// Add puts offerID into the user's favorites set and returns the offer
// as the user now sees it. Adding an already-favorited offer is a no-op.
func (s *Service) Add(ctx context.Context, userID, offerID string) (*offer.Enriched, error) {
	o, err := s.lookup(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if err := s.favorites.AddFavorite(ctx, userID, offerID); err != nil {
		return nil, fmt.Errorf("adding favorite: %w", err)
	}

	slog.Info("favorite added", "user", userID, "offer", offerID)

	return s.enricher.Enrich(ctx, o, userID)
}

// Remove takes offerID out of the user's favorites set and returns the
// offer as the user now sees it. Removing an absent offer is a no-op.
func (s *Service) Remove(ctx context.Context, userID, offerID string) (*offer.Enriched, error) {
	o, err := s.lookup(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if err := s.favorites.RemoveFavorite(ctx, userID, offerID); err != nil {
		return nil, fmt.Errorf("removing favorite: %w", err)
	}

	slog.Info("favorite removed", "user", userID, "offer", offerID)

	return s.enricher.Enrich(ctx, o, userID)
}

// List returns every offer in the user's favorites set, batch-enriched
// with the user as viewer, so each result reports isFavorite=true by
// construction.
func (s *Service) List(ctx context.Context, userID string) ([]*offer.Enriched, error) {
	ids, err := s.favorites.FavoriteIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading favorite ids: %w", err)
	}
	if len(ids) == 0 {
		return []*offer.Enriched{}, nil
	}

	offers, err := s.offers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading favorite offers: %w", err)
	}

	return s.enricher.EnrichAll(ctx, offers, userID)
}

func (s *Service) lookup(ctx context.Context, offerID string) (*offer.Offer, error) {
	o, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("loading offer: %w", err)
	}
	if o == nil {
		return nil, apperr.NotFound("offer not found")
	}
	return o, nil
}
