package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/six-cities/internal/auth"
	"github.com/avolkov/six-cities/internal/offer"
)

// pageParams reads the limit and skip query parameters. Absent or
// unparsable values come back as zero and the services apply their
// defaults.
func pageParams(r *http.Request) (limit, skip int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	return limit, skip
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	limit, skip := pageParams(r)

	offers, err := s.offers.List(r.Context(), auth.UserID(r.Context()), limit, skip)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, offers, http.StatusOK)
}

func (s *Server) handlePremiumOffers(w http.ResponseWriter, r *http.Request) {
	limit, skip := pageParams(r)
	city := chi.URLParam(r, "city")

	offers, err := s.offers.Premium(r.Context(), auth.UserID(r.Context()), city, limit, skip)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, offers, http.StatusOK)
}

func (s *Server) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	o, err := s.offers.Get(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "offerId"))
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, o, http.StatusOK)
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offer.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		apiError(w, err)
		return
	}

	o, err := s.offers.Create(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, o, http.StatusCreated)
}

func (s *Server) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	var req offer.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		apiError(w, err)
		return
	}

	o, err := s.offers.Update(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "offerId"), req)
	if err != nil {
		apiError(w, err)
		return
	}

	apiJSON(w, o, http.StatusOK)
}

func (s *Server) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := s.offers.Delete(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "offerId")); err != nil {
		apiError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
