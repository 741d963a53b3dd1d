package repository

import (
	"context"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
)

// ProductRepository defines persistence behavior for products and their
// category links.
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	GetByID(ctx context.Context, id int64) (entity.Product, error)
	Create(ctx context.Context, p entity.Product) (entity.Product, error)
	// ListReferencing returns products whose four category fields reference
	// any of ids.
	ListReferencing(ctx context.Context, ids []int64) ([]entity.Product, error)
	UpdateLinks(ctx context.Context, id int64, links entity.CategoryLinks) error
}
