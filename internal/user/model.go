// Package user provides the user domain model, storage and account operations.
package user

import (
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/apperr"
)

// Type distinguishes regular hosts from pro hosts.
type Type string

const (
	TypeRegular Type = "regular"
	TypePro     Type = "pro"
)

// ValidType returns true if t is a known user type.
func ValidType(t string) bool {
	switch Type(t) {
	case TypeRegular, TypePro:
		return true
	}
	return false
}

// User is the stored user document. Password holds the bcrypt hash and
// is never serialized to JSON.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Email     string               `bson:"email" json:"email"`
	Avatar    string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Password  string               `bson:"password" json:"-"`
	Type      Type                 `bson:"type" json:"type"`
	Favorites []primitive.ObjectID `bson:"favorites" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Public is the user shape embedded in offers and comments.
// It carries no credentials.
type Public struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	Type   Type   `json:"type"`
}

// Public returns the credential-free view of u.
func (u *User) Public() Public {
	return Public{
		ID:     u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Type:   u.Type,
	}
}

// CreateRequest is the registration request body.
type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration bounds: name 1-15, email present,
// password 6-12.
func (r CreateRequest) Validate() error {
	if len(r.Name) < 1 || len(r.Name) > 15 {
		return apperr.Validation("name must be 1-15 characters")
	}
	if !validEmail(r.Email) {
		return apperr.Validation("email is invalid")
	}
	if len(r.Password) < 6 || len(r.Password) > 12 {
		return apperr.Validation("password must be 6-12 characters")
	}
	return nil
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	if !validEmail(r.Email) {
		return apperr.Validation("email is invalid")
	}
	if r.Password == "" {
		return apperr.Validation("password is required")
	}
	return nil
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// validEmail checks the address parses and the domain has a dot.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}
