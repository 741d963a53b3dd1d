// Package database selects the storage backend from configuration.
package database

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database/postgres"
)

// Backend bundles the repositories and the transaction manager that share
// one store.
type Backend struct {
	Tx         repository.TxManager
	Categories repository.CategoryRepository
	Products   repository.ProductRepository

	db *sql.DB
}

// Open connects to Postgres and applies the schema when databaseURL is set,
// and falls back to an in-memory store otherwise.
func Open(ctx context.Context, databaseURL string) (*Backend, error) {
	if databaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		store := inmemory.NewStore()
		return &Backend{
			Tx:         store,
			Categories: inmemory.NewCategoryRepository(store),
			Products:   inmemory.NewProductRepository(store),
		}, nil
	}

	db, err := postgres.Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Msg("connected to postgres")
	return &Backend{
		Tx:         postgres.NewTxManager(db),
		Categories: postgres.NewCategoryRepository(db),
		Products:   postgres.NewProductRepository(db),
		db:         db,
	}, nil
}

// DB returns the Postgres handle, or nil for the in-memory store.
func (b *Backend) DB() *sql.DB {
	return b.db
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
