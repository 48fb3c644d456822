// Package offer provides the rental offer domain: model, storage,
// the enrichment pipeline and the ownership guard.
package offer

import (
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/apperr"
)

// City is one of the six cities offers can be published in.
type City string

const (
	CityMoscow          City = "Moscow"
	CitySaintPetersburg City = "Saint Petersburg"
	CityNovosibirsk     City = "Novosibirsk"
	CityYekaterinburg   City = "Yekaterinburg"
	CityKazan           City = "Kazan"
	CityNizhnyNovgorod  City = "Nizhny Novgorod"
)

// Cities lists every valid city.
var Cities = []City{
	CityMoscow, CitySaintPetersburg, CityNovosibirsk,
	CityYekaterinburg, CityKazan, CityNizhnyNovgorod,
}

// ValidCity returns true if c is a known city.
func ValidCity(c string) bool {
	for _, city := range Cities {
		if City(c) == city {
			return true
		}
	}
	return false
}

// HousingType is the kind of housing an offer describes.
type HousingType string

const (
	HousingApartment HousingType = "apartment"
	HousingHouse     HousingType = "house"
	HousingRoom      HousingType = "room"
	HousingHotel     HousingType = "hotel"
)

// HousingTypes lists every valid housing type.
var HousingTypes = []HousingType{HousingApartment, HousingHouse, HousingRoom, HousingHotel}

// ValidHousingType returns true if t is a known housing type.
func ValidHousingType(t string) bool {
	for _, ht := range HousingTypes {
		if HousingType(t) == ht {
			return true
		}
	}
	return false
}

// Amenity is a single offer amenity.
type Amenity string

const (
	AmenityBreakfast       Amenity = "Breakfast"
	AmenityAirConditioning Amenity = "Air conditioning"
	AmenityWorkspace       Amenity = "Laptop friendly workspace"
	AmenityBabySeat        Amenity = "Baby seat"
	AmenityWasher          Amenity = "Washer"
	AmenityTowels          Amenity = "Towels"
	AmenityFridge          Amenity = "Fridge"
)

// Amenities lists every valid amenity.
var Amenities = []Amenity{
	AmenityBreakfast, AmenityAirConditioning, AmenityWorkspace,
	AmenityBabySeat, AmenityWasher, AmenityTowels, AmenityFridge,
}

// ValidAmenity returns true if a is a known amenity.
func ValidAmenity(a string) bool {
	for _, am := range Amenities {
		if Amenity(a) == am {
			return true
		}
	}
	return false
}

// Coordinates is an offer's location.
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// ImageCount is the exact number of gallery images an offer carries.
const ImageCount = 6

// Offer is the stored offer document. Viewer-dependent and aggregate
// fields (isFavorite, rating, commentsCount) are not stored; they are
// computed by the enrichment pipeline at read time.
type Offer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description"`
	PublicationDate time.Time          `bson:"publicationDate"`
	City            City               `bson:"city"`
	PreviewImage    string             `bson:"previewImage"`
	Images          []string           `bson:"images"`
	IsPremium       bool               `bson:"isPremium"`
	Type            HousingType        `bson:"type"`
	Bedrooms        int                `bson:"bedrooms"`
	MaxGuests       int                `bson:"maxGuests"`
	Price           int                `bson:"price"`
	Amenities       []Amenity          `bson:"amenities"`
	AuthorID        primitive.ObjectID `bson:"author"`
	Coordinates     Coordinates        `bson:"coordinates"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// CreateRequest is the offer creation request body. Every field is
// required.
type CreateRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	City         string       `json:"city"`
	PreviewImage string       `json:"previewImage"`
	Images       []string     `json:"images"`
	IsPremium    bool         `json:"isPremium"`
	Type         string       `json:"type"`
	Bedrooms     int          `json:"bedrooms"`
	MaxGuests    int          `json:"maxGuests"`
	Price        int          `json:"price"`
	Amenities    []string     `json:"amenities"`
	Coordinates  *Coordinates `json:"coordinates"`
}

// Validate checks every creation bound.
func (r CreateRequest) Validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if !ValidCity(r.City) {
		return apperr.Validation("unknown city %q", r.City)
	}
	if !validURI(r.PreviewImage) {
		return apperr.Validation("previewImage must be a valid URI")
	}
	if err := validateImages(r.Images); err != nil {
		return err
	}
	if !ValidHousingType(r.Type) {
		return apperr.Validation("unknown housing type %q", r.Type)
	}
	if r.Bedrooms < 1 || r.Bedrooms > 8 {
		return apperr.Validation("bedrooms must be 1-8")
	}
	if r.MaxGuests < 1 || r.MaxGuests > 10 {
		return apperr.Validation("maxGuests must be 1-10")
	}
	if r.Price < 100 || r.Price > 100000 {
		return apperr.Validation("price must be 100-100000")
	}
	if err := validateAmenities(r.Amenities); err != nil {
		return err
	}
	if r.Coordinates == nil {
		return apperr.Validation("coordinates are required")
	}
	return nil
}

// UpdateRequest is the partial offer update request body. Absent fields
// are left unchanged.
type UpdateRequest struct {
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	City         *string      `json:"city"`
	PreviewImage *string      `json:"previewImage"`
	Images       []string     `json:"images"`
	IsPremium    *bool        `json:"isPremium"`
	Type         *string      `json:"type"`
	Bedrooms     *int         `json:"bedrooms"`
	MaxGuests    *int         `json:"maxGuests"`
	Price        *int         `json:"price"`
	Amenities    []string     `json:"amenities"`
	Coordinates  *Coordinates `json:"coordinates"`
}

// Validate checks every supplied field against the creation bounds.
func (r UpdateRequest) Validate() error {
	if r.Title != nil {
		if err := validateTitle(*r.Title); err != nil {
			return err
		}
	}
	if r.Description != nil {
		if err := validateDescription(*r.Description); err != nil {
			return err
		}
	}
	if r.City != nil && !ValidCity(*r.City) {
		return apperr.Validation("unknown city %q", *r.City)
	}
	if r.PreviewImage != nil && !validURI(*r.PreviewImage) {
		return apperr.Validation("previewImage must be a valid URI")
	}
	if r.Images != nil {
		if err := validateImages(r.Images); err != nil {
			return err
		}
	}
	if r.Type != nil && !ValidHousingType(*r.Type) {
		return apperr.Validation("unknown housing type %q", *r.Type)
	}
	if r.Bedrooms != nil && (*r.Bedrooms < 1 || *r.Bedrooms > 8) {
		return apperr.Validation("bedrooms must be 1-8")
	}
	if r.MaxGuests != nil && (*r.MaxGuests < 1 || *r.MaxGuests > 10) {
		return apperr.Validation("maxGuests must be 1-10")
	}
	if r.Price != nil && (*r.Price < 100 || *r.Price > 100000) {
		return apperr.Validation("price must be 100-100000")
	}
	if r.Amenities != nil {
		if err := validateAmenities(r.Amenities); err != nil {
			return err
		}
	}
	return nil
}

func validateTitle(title string) error {
	if len(title) < 10 || len(title) > 100 {
		return apperr.Validation("title must be 10-100 characters")
	}
	return nil
}

func validateDescription(desc string) error {
	if len(desc) < 20 || len(desc) > 1024 {
		return apperr.Validation("description must be 20-1024 characters")
	}
	return nil
}

func validateImages(images []string) error {
	if len(images) != ImageCount {
		return apperr.Validation("images must contain exactly %d entries", ImageCount)
	}
	for _, img := range images {
		if !validURI(img) {
			return apperr.Validation("image %q must be a valid URI", img)
		}
	}
	return nil
}

func validateAmenities(amenities []string) error {
	for _, a := range amenities {
		if !ValidAmenity(a) {
			return apperr.Validation("unknown amenity %q", a)
		}
	}
	return nil
}

func validURI(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
