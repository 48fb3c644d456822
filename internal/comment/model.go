// Package comment provides rated text feedback attached to offers.
package comment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/apperr"
	"github.com/avolkov/six-cities/internal/user"
)

// Comment is the stored comment document. Comments are never updated;
// they are deleted in bulk when their offer is deleted.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Rating    int                `bson:"rating"`
	AuthorID  primitive.ObjectID `bson:"author"`
	OfferID   primitive.ObjectID `bson:"offerId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Stats aggregates a single offer's comments: row count and the raw
// (unrounded) average rating. Zero comments yield the zero value.
type Stats struct {
	Count  int
	Rating float64
}

// Response is the comment shape returned to clients, with the author
// expanded to public user fields.
type Response struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Rating    int         `json:"rating"`
	Author    user.Public `json:"author"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CreateRequest is the comment creation request body.
type CreateRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// Validate checks text 5-1024 and integer rating 1-5.
func (r CreateRequest) Validate() error {
	if len(r.Text) < 5 || len(r.Text) > 1024 {
		return apperr.Validation("text must be 5-1024 characters")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return apperr.Validation("rating must be 1-5")
	}
	return nil
}
