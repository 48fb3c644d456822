// Package cli defines the cobra command tree for six-cities.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkov/six-cities/internal/config"
	"github.com/avolkov/six-cities/internal/db"
	"github.com/avolkov/six-cities/internal/logging"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "six-cities",
		Short:         "Rental listing service",
		Long:          "REST backend for the six-cities rental listing service, with companion commands for importing and generating fixture data.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newGenerateCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB loads the configuration, sets up logging and connects to the
// database. Used by the commands that touch the store.
func openDB(ctx context.Context) (*config.Config, *db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logging.Setup(cfg.DevMode)

	database, err := db.Open(ctx, cfg.DBURI, cfg.DBName)
	if err != nil {
		return nil, nil, err
	}

	return cfg, database, nil
}

// closeDB disconnects, logging any error to stderr.
func closeDB(ctx context.Context, database *db.DB) {
	if err := database.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
