package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wichananm65/camera-store-backend/internal/infrastructure/config"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

var (
	Version = "dev"

	databaseURL string
	verbose     bool
)

// services is what every subcommand operates on.
type services struct {
	backend    *database.Backend
	categories *usecase.CategoryService
	links      *usecase.LinkService
}

func open(ctx context.Context) (*services, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or --database-url is required")
	}
	backend, err := database.Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	links := usecase.NewLinkService(backend.Tx, backend.Categories, backend.Products)
	return &services{
		backend:    backend,
		categories: usecase.NewCategoryService(backend.Tx, backend.Categories, links),
		links:      links,
	}, nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:     "catalogctl",
		Short:   "Maintenance commands for the camera store catalog",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", cfg.DatabaseURL, "Postgres connection string")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(treeCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(unlinkCmd())
	rootCmd.AddCommand(moveProductsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
