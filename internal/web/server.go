// Package web provides the HTTP server and handlers for the rental API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/avolkov/six-cities/internal/comment"
	"github.com/avolkov/six-cities/internal/favorite"
	"github.com/avolkov/six-cities/internal/logging"
	"github.com/avolkov/six-cities/internal/offer"
	"github.com/avolkov/six-cities/internal/user"
)

// Server is the rental API HTTP server.
type Server struct {
	users     *user.Service
	offers    *offer.Service
	comments  *comment.Service
	favorites *favorite.Service
	jwtSecret string
	uploadDir string
	router    chi.Router
}

// NewServer creates the API server and mounts every route.
func NewServer(jwtSecret, uploadDir string, users *user.Service, offers *offer.Service, comments *comment.Service, favorites *favorite.Service) *Server {
	s := &Server{
		users:     users,
		offers:    offers,
		comments:  comments,
		favorites: favorites,
		jwtSecret: jwtSecret,
		uploadDir: uploadDir,
	}

	r := chi.NewRouter()
	r.Use(logging.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.authRequired)
			r.Get("/check", s.handleCheck)
			r.Post("/avatar", s.handleAvatarUpload)
		})
	})

	r.Route("/offers", func(r chi.Router) {
		r.With(s.authOptional).Get("/", s.handleListOffers)
		r.With(s.authRequired).Post("/", s.handleCreateOffer)
		r.With(s.authOptional).Get("/premium/{city}", s.handlePremiumOffers)

		r.Route("/{offerId}", func(r chi.Router) {
			r.Use(requireOfferID)
			r.With(s.authOptional).Get("/", s.handleGetOffer)
			r.With(s.authRequired).Patch("/", s.handleUpdateOffer)
			r.With(s.authRequired).Delete("/", s.handleDeleteOffer)

			r.Route("/comments", func(r chi.Router) {
				r.Use(s.offerExists)
				r.Get("/", s.handleListComments)
				r.With(s.authRequired).Post("/", s.handleCreateComment)
			})
		})
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Use(s.authRequired)
		r.Get("/", s.handleListFavorites)
		r.Route("/{offerId}", func(r chi.Router) {
			r.Use(requireOfferID)
			r.Post("/", s.handleAddFavorite)
			r.Delete("/", s.handleRemoveFavorite)
		})
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploadDir))))

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
