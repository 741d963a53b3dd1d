package usecase

import (
	"context"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
)

// CategoryUsecase exposes the category tree operations.
type CategoryUsecase interface {
	ListChildren(ctx context.Context, parentID *int64) ([]entity.Category, error)
	ListAll(ctx context.Context) ([]entity.Category, error)
	Get(ctx context.Context, id int64) (entity.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (entity.Category, error)
	Rename(ctx context.Context, id int64, input UpdateCategoryInput) (entity.Category, error)
	Move(ctx context.Context, id int64, newParentID *int64) (entity.Category, error)
	Delete(ctx context.Context, id int64, opts DeleteOptions) (DeleteSummary, error)
}

// LinkUsecase exposes bulk and per-product category link operations.
type LinkUsecase interface {
	Unlink(ctx context.Context, categoryID int64) (int, error)
	MoveProducts(ctx context.Context, categoryID int64, target *int64, opts MoveOptions) (int, error)
	Assign(ctx context.Context, productID int64, links entity.CategoryLinks) (entity.Product, error)
}

// CategoryCache keeps the flattened category list between mutations.
// Invalidate advances the generation, and SetIfCurrent drops data read
// under an older one.
type CategoryCache interface {
	Get() ([]entity.Category, bool)
	Generation() uint64
	SetIfCurrent(gen uint64, categories []entity.Category) bool
	Invalidate()
}

// CreateCategoryInput carries data required to create a category.
type CreateCategoryInput struct {
	Name              string
	ParentID          *int64
	ProductNamePrefix *string
}

// UpdateCategoryInput carries an in-place rename. A nil field is left as is;
// an empty prefix clears it.
type UpdateCategoryInput struct {
	Name              *string
	ProductNamePrefix *string
}

// DeleteOptions controls category deletion.
type DeleteOptions struct {
	Cascade bool
}

// DeleteSummary reports what a delete removed.
type DeleteSummary struct {
	CategoriesRemoved int
	ProductsUnlinked  int
}

// MoveOptions controls which dependent fields MoveProducts clears when the
// source is a top-level category.
type MoveOptions struct {
	ClearSubcategory    bool
	ClearSubsubcategory bool
}
