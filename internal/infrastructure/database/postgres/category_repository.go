package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// CategoryRepository is a PostgreSQL implementation of CategoryRepository.
type CategoryRepository struct {
	db *sql.DB
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

const (
	categoryColumns = `id, name, parent_id, level, product_name_prefix, created_at, updated_at`

	listCategoriesQuery = `
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY level, name, id
	`
	listTopLevelQuery = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE parent_id IS NULL
		ORDER BY name, id
	`
	listChildrenQuery = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE parent_id = $1
		ORDER BY name, id
	`
	getCategoryQuery = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1
	`
	insertCategoryQuery = `
		INSERT INTO categories (name, parent_id, level, product_name_prefix)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	updateCategoryQuery = `
		UPDATE categories
		SET name = $1,
			parent_id = $2,
			level = $3,
			product_name_prefix = $4,
			updated_at = now()
		WHERE id = $5
	`
	deleteCategoryQuery = `DELETE FROM categories WHERE id = $1`
)

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	return r.query(ctx, listCategoriesQuery)
}

func (r *CategoryRepository) Children(ctx context.Context, parentID *int64) ([]entity.Category, error) {
	if parentID == nil {
		return r.query(ctx, listTopLevelQuery)
	}
	return r.query(ctx, listChildrenQuery, *parentID)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (entity.Category, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, getCategoryQuery, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Category{}, repository.ErrNotFound
	}
	if err != nil {
		return entity.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c entity.Category) (entity.Category, error) {
	err := conn(ctx, r.db).QueryRowContext(ctx, insertCategoryQuery,
		c.Name, nullID(c.ParentID), c.Level, nullString(c.ProductNamePrefix),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return entity.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c entity.Category) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, updateCategoryQuery,
		c.Name, nullID(c.ParentID), c.Level, nullString(c.ProductNamePrefix), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return expectRow(res)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, deleteCategoryQuery, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return expectRow(res)
}

func (r *CategoryRepository) query(ctx context.Context, q string, args ...any) ([]entity.Category, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (entity.Category, error) {
	var (
		c      entity.Category
		parent sql.NullInt64
		prefix sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &parent, &c.Level, &prefix, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return entity.Category{}, err
	}
	c.ParentID = idFromNull(parent)
	if prefix.Valid {
		c.ProductNamePrefix = &prefix.String
	}
	return c, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullID(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func idFromNull(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
