package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("offer missing")); got != KindNotFound {
		t.Errorf("kind = %q, want %q", got, KindNotFound)
	}
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("kind = %q, want %q", got, KindInternal)
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading offer: %w", Forbidden("not the author"))
	if got := KindOf(err); got != KindForbidden {
		t.Errorf("kind = %q, want %q", got, KindForbidden)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad id"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Forbidden("not yours"), http.StatusForbidden},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Conflict("duplicate email"), http.StatusConflict},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("dial tcp 10.0.0.5:27017: timeout"))
	if got := Message(err); got != "internal error" {
		t.Errorf("message = %q, want generic", got)
	}
	if got := Message(errors.New("raw failure")); got != "internal error" {
		t.Errorf("message = %q, want generic", got)
	}
}

func TestMessageKeepsClassifiedDetail(t *testing.T) {
	if got := Message(NotFound("offer not found")); got != "offer not found" {
		t.Errorf("message = %q, want %q", got, "offer not found")
	}
}
