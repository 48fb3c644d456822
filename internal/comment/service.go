package comment

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/apperr"
	"github.com/avolkov/six-cities/internal/user"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 50

// UserReader is the slice of the user store the comment service needs
// to expand comment authors.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*user.User, error)
}

// Service creates and lists comments with their authors expanded.
type Service struct {
	store Store
	users UserReader
}

// NewService creates a comment service.
func NewService(store Store, users UserReader) *Service {
	return &Service{store: store, users: users}
}

// Create persists a comment by userID on offerID. The caller has
// already verified the offer exists.
func (s *Service) Create(ctx context.Context, userID, offerID string, req CreateRequest) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	authorID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Validation("malformed user id %q", userID)
	}
	oid, err := primitive.ObjectIDFromHex(offerID)
	if err != nil {
		return nil, apperr.Validation("malformed offer id %q", offerID)
	}

	c, err := s.store.Insert(ctx, &Comment{
		Text:     req.Text,
		Rating:   req.Rating,
		AuthorID: authorID,
		OfferID:  oid,
	})
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading comment author: %w", err)
	}
	if author == nil {
		return nil, apperr.NotFound("comment author not found")
	}

	slog.Info("comment created", "id", c.ID.Hex(), "offer", offerID)

	return toResponse(c, author.Public()), nil
}

// List returns up to limit comments for an offer, newest first. A
// non-positive limit falls back to DefaultLimit. The caller has already
// verified the offer exists.
func (s *Service) List(ctx context.Context, offerID string, limit, skip int) ([]*Response, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if skip < 0 {
		skip = 0
	}

	comments, err := s.store.FindByOffer(ctx, offerID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	authors, err := s.loadAuthors(ctx, comments)
	if err != nil {
		return nil, err
	}

	responses := make([]*Response, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, toResponse(c, authors[c.AuthorID.Hex()]))
	}

	return responses, nil
}

// loadAuthors fetches the public view of every distinct comment author
// with one query.
func (s *Service) loadAuthors(ctx context.Context, comments []*Comment) (map[string]user.Public, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, c := range comments {
		hex := c.AuthorID.Hex()
		if !seen[hex] {
			seen[hex] = true
			ids = append(ids, hex)
		}
	}

	authors := make(map[string]user.Public, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading comment authors: %w", err)
	}
	for _, u := range users {
		authors[u.ID.Hex()] = u.Public()
	}

	return authors, nil
}

func toResponse(c *Comment, author user.Public) *Response {
	return &Response{
		ID:        c.ID.Hex(),
		Text:      c.Text,
		Rating:    c.Rating,
		Author:    author,
		CreatedAt: c.CreatedAt,
	}
}
