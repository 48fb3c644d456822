package mockdata

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/offer"
)

// OfferWriter is the slice of the offer store the importer needs.
type OfferWriter interface {
	Insert(ctx context.Context, o *offer.Offer) (*offer.Offer, error)
}

// Importer inserts fixture records as offers owned by a single author.
type Importer struct {
	offers OfferWriter
}

// NewImporter creates an importer over the given store.
func NewImporter(offers OfferWriter) *Importer {
	return &Importer{offers: offers}
}

// Import inserts every record as an offer authored by authorID and
// returns the number inserted. The denormalized derived fields on the
// record (isFavorite, rating, commentsCount) are dropped: the server
// recomputes them from live data.
func (i *Importer) Import(ctx context.Context, records []Record, authorID primitive.ObjectID) (int, error) {
	for n, r := range records {
		if _, err := i.offers.Insert(ctx, ToOffer(r, authorID)); err != nil {
			return n, fmt.Errorf("inserting record %d (%q): %w", n, r.Title, err)
		}
	}
	return len(records), nil
}

// ToOffer converts a fixture record to a storable offer.
func ToOffer(r Record, authorID primitive.ObjectID) *offer.Offer {
	return &offer.Offer{
		Title:           r.Title,
		Description:     r.Description,
		PublicationDate: r.PublicationDate,
		City:            r.City,
		PreviewImage:    r.PreviewImage,
		Images:          r.Images,
		IsPremium:       r.IsPremium,
		Type:            r.Type,
		Bedrooms:        r.Bedrooms,
		MaxGuests:       r.MaxGuests,
		Price:           r.Price,
		Amenities:       r.Amenities,
		AuthorID:        authorID,
		Coordinates:     r.Coordinates,
	}
}
