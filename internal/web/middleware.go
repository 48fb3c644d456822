package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avolkov/six-cities/internal/auth"
)

// authRequired authenticates the bearer token, verifies the subject
// still exists and attaches the user id to the request context.
// Requests without a valid token get 401.
func (s *Server) authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		if userID == "" {
			apiJSON(w, map[string]string{"error": "authorization required"}, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

// authOptional attaches the user id when a valid bearer token is
// present and lets anonymous requests through. A token that is present
// but invalid is still 401: a client that sends credentials should
// learn they are bad.
func (s *Server) authOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		if userID != "" {
			r = r.WithContext(auth.WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate extracts and verifies the bearer token. It returns
// ("", true) when no token was sent, and (_, false) after writing a 401
// for a bad one.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", true
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		apiJSON(w, map[string]string{"error": "malformed authorization header"}, http.StatusUnauthorized)
		return "", false
	}

	userID, err := auth.DecodeToken(s.jwtSecret, token)
	if err != nil {
		apiJSON(w, map[string]string{"error": "invalid token"}, http.StatusUnauthorized)
		return "", false
	}

	// A token can outlive its account.
	if _, err := s.users.Get(r.Context(), userID); err != nil {
		apiJSON(w, map[string]string{"error": "invalid token"}, http.StatusUnauthorized)
		return "", false
	}

	return userID, true
}

// requireOfferID rejects malformed offer ids before they reach a
// handler or the database.
func requireOfferID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "offerId")
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			badRequest(w, "malformed offer id")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// offerExists vets the parent offer of a comment route, turning a
// dangling id into a 404 before the comment service runs.
func (s *Server) offerExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.offers.Exists(r.Context(), chi.URLParam(r, "offerId")); err != nil {
			apiError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
