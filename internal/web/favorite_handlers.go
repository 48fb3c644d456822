package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/six-cities/internal/auth"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	offers, err := s.favorites.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, offers, http.StatusOK)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	o, err := s.favorites.Add(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "offerId"))
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, o, http.StatusCreated)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	o, err := s.favorites.Remove(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "offerId"))
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, o, http.StatusOK)
}
