package repository

import (
	"context"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
)

// CategoryRepository defines persistence behavior for the category tree.
type CategoryRepository interface {
	// List returns every category ordered by level, name, id.
	List(ctx context.Context) ([]entity.Category, error)
	// Children returns direct children of parentID ordered by name, or the
	// top-level categories when parentID is nil.
	Children(ctx context.Context, parentID *int64) ([]entity.Category, error)
	GetByID(ctx context.Context, id int64) (entity.Category, error)
	Create(ctx context.Context, c entity.Category) (entity.Category, error)
	// Update stores name, parent, level and prefix of an existing category.
	Update(ctx context.Context, c entity.Category) error
	Delete(ctx context.Context, id int64) error
}
