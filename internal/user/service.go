package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avolkov/six-cities/internal/apperr"
	"github.com/avolkov/six-cities/internal/auth"
)

// Service provides account operations: registration, login, profile
// lookup and avatar updates.
type Service struct {
	store     Store
	jwtSecret string
}

// NewService creates a user service.
func NewService(store Store, jwtSecret string) *Service {
	return &Service{store: store, jwtSecret: jwtSecret}
}

// Get returns the public view of a user.
func (s *Service) Get(ctx context.Context, id string) (*Public, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	p := u.Public()
	return &p, nil
}

// Register creates a new regular user. A duplicate email is a conflict.
func (s *Service) Register(ctx context.Context, req CreateRequest) (*Public, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("user with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u, err := s.store.Insert(ctx, &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Type:     TypeRegular,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user created", "id", u.ID.Hex())

	p := u.Public()
	return &p, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	if !auth.CheckPassword(req.Password, u.Password) {
		return nil, apperr.Unauthorized("invalid password")
	}

	token, err := auth.EncodeToken(s.jwtSecret, u.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	slog.Info("user logged in", "id", u.ID.Hex())

	return &LoginResponse{Token: token}, nil
}

// SetAvatar records a freshly uploaded avatar file for the user.
func (s *Service) SetAvatar(ctx context.Context, userID, filename string) error {
	if err := s.store.SetAvatar(ctx, userID, "/uploads/"+filename); err != nil {
		return fmt.Errorf("updating avatar: %w", err)
	}

	slog.Info("avatar updated", "user", userID, "file", filename)
	return nil
}
