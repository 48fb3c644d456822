package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avolkov/six-cities/internal/apperr"
)

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiError maps a service error to its status code and caller-safe
// message. Internal causes go to the log, never to the client.
func apiError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	apiJSON(w, map[string]string{"error": apperr.Message(err)}, status)
}

// decodeJSON parses the request body into dst, bounding the body size.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("malformed request body")
	}
	return nil
}

// badRequest is the client-facing shape of a locally detected error.
func badRequest(w http.ResponseWriter, msg string) {
	apiJSON(w, map[string]string{"error": msg}, http.StatusBadRequest)
}
