package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		parent_id BIGINT REFERENCES categories(id),
		level SMALLINT NOT NULL DEFAULT 0,
		product_name_prefix TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS categories_parent_id_idx ON categories (parent_id)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		rating NUMERIC(2,1),
		condition TEXT NOT NULL DEFAULT 'new',
		featured BOOLEAN NOT NULL DEFAULT false,
		category_id BIGINT REFERENCES categories(id),
		subcategory_id BIGINT REFERENCES categories(id),
		subsubcategory_id BIGINT REFERENCES categories(id),
		category_id_2 BIGINT REFERENCES categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS products_category_id_idx ON products (category_id)`,
	`CREATE INDEX IF NOT EXISTS products_subcategory_id_idx ON products (subcategory_id)`,
	`CREATE INDEX IF NOT EXISTS products_subsubcategory_id_idx ON products (subsubcategory_id)`,
	`CREATE INDEX IF NOT EXISTS products_category_id_2_idx ON products (category_id_2)`,
}

// Migrate creates the catalog tables when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
