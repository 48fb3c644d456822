package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/six-cities/internal/auth"
	"github.com/avolkov/six-cities/internal/comment"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	limit, skip := pageParams(r)

	comments, err := s.comments.List(r.Context(), chi.URLParam(r, "offerId"), limit, skip)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, comments, http.StatusOK)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req comment.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		apiError(w, err)
		return
	}

	c, err := s.comments.Create(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "offerId"), req)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, c, http.StatusCreated)
}
