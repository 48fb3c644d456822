package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avolkov/six-cities/internal/comment"
	"github.com/avolkov/six-cities/internal/db"
	"github.com/avolkov/six-cities/internal/favorite"
	"github.com/avolkov/six-cities/internal/offer"
	"github.com/avolkov/six-cities/internal/user"
	"github.com/avolkov/six-cities/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server. Listens until interrupted, then shuts down gracefully.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: PORT env)")

	return cmd
}

func runServe(port int) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, database)

	if port == 0 {
		port = cfg.Port
	}

	users := user.NewRepository(database.Collection(db.UsersCollection))
	offers := offer.NewRepository(database.Collection(db.OffersCollection))
	comments := comment.NewRepository(database.Collection(db.CommentsCollection))

	enricher := offer.NewEnricher(users, comments)
	userSvc := user.NewService(users, cfg.JWTSecret)
	offerSvc := offer.NewService(offers, enricher, comments)
	commentSvc := comment.NewService(comments, users)
	favoriteSvc := favorite.NewService(users, offers, enricher)

	srv := web.NewServer(cfg.JWTSecret, cfg.UploadDir, userSvc, offerSvc, commentSvc, favoriteSvc)

	slog.Info("starting server", "port", port)
	return srv.ListenAndServe(ctx, port)
}
