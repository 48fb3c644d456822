// Package mockdata generates and imports tab-separated offer fixtures.
package mockdata

import (
	"time"

	"github.com/avolkov/six-cities/internal/offer"
)

// Record is one row of the fixture format: a raw offer plus its author
// email and a denormalized snapshot of the derived fields. Derived
// fields survive the round trip but are recomputed by the server after
// import.
type Record struct {
	ID              string
	Title           string
	Description     string
	PublicationDate time.Time
	City            offer.City
	PreviewImage    string
	Images          []string
	IsPremium       bool
	IsFavorite      bool
	Rating          float64
	Type            offer.HousingType
	Bedrooms        int
	MaxGuests       int
	Price           int
	Amenities       []offer.Amenity
	Author          string
	CommentsCount   int
	Coordinates     offer.Coordinates
}
