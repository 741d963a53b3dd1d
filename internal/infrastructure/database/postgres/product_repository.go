package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// ProductRepository is a PostgreSQL implementation of ProductRepository.
type ProductRepository struct {
	db *sql.DB
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

const (
	productColumns = `id, name, brand, price, rating, condition, featured,
		category_id, subcategory_id, subsubcategory_id, category_id_2, created_at, updated_at`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id
	`
	getProductQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, brand, price, rating, condition, featured,
			category_id, subcategory_id, subsubcategory_id, category_id_2)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	// FOR UPDATE keeps concurrent link rewrites of the same rows serialized
	// for the rest of the transaction.
	listReferencingQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE category_id = ANY($1::bigint[])
			OR subcategory_id = ANY($1::bigint[])
			OR subsubcategory_id = ANY($1::bigint[])
			OR category_id_2 = ANY($1::bigint[])
		ORDER BY id
		FOR UPDATE
	`
	updateLinksQuery = `
		UPDATE products
		SET category_id = $1,
			subcategory_id = $2,
			subsubcategory_id = $3,
			category_id_2 = $4,
			updated_at = now()
		WHERE id = $5
	`
)

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	return r.query(ctx, listProductsQuery)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (entity.Product, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, getProductQuery, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Product{}, repository.ErrNotFound
	}
	if err != nil {
		return entity.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p entity.Product) (entity.Product, error) {
	if p.Condition == "" {
		p.Condition = entity.ConditionNew
	}
	var rating sql.NullFloat64
	if p.Rating != nil {
		rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
	}
	err := conn(ctx, r.db).QueryRowContext(ctx, insertProductQuery,
		p.Name, p.Brand, p.Price, rating, p.Condition, p.Featured,
		nullID(p.Links.CategoryID), nullID(p.Links.SubcategoryID),
		nullID(p.Links.SubsubcategoryID), nullID(p.Links.CategoryID2),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return entity.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) ListReferencing(ctx context.Context, ids []int64) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	return r.query(ctx, listReferencingQuery, pq.Array(ids))
}

func (r *ProductRepository) UpdateLinks(ctx context.Context, id int64, links entity.CategoryLinks) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, updateLinksQuery,
		nullID(links.CategoryID), nullID(links.SubcategoryID),
		nullID(links.SubsubcategoryID), nullID(links.CategoryID2), id,
	)
	if err != nil {
		return fmt.Errorf("update product %d links: %w", id, err)
	}
	return expectRow(res)
}

func (r *ProductRepository) query(ctx context.Context, q string, args ...any) ([]entity.Product, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(s scanner) (entity.Product, error) {
	var (
		p                           entity.Product
		rating                      sql.NullFloat64
		category, sub, subsub, sec2 sql.NullInt64
	)
	err := s.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &rating, &p.Condition, &p.Featured,
		&category, &sub, &subsub, &sec2, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return entity.Product{}, err
	}
	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	p.Links = entity.CategoryLinks{
		CategoryID:       idFromNull(category),
		SubcategoryID:    idFromNull(sub),
		SubsubcategoryID: idFromNull(subsub),
		CategoryID2:      idFromNull(sec2),
	}
	return p, nil
}
