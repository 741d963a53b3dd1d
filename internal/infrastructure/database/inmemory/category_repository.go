package inmemory

import (
	"context"
	"sort"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// CategoryRepository is an in-memory implementation of CategoryRepository.
type CategoryRepository struct {
	store *Store
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	defer r.store.lock(ctx)()

	result := make([]entity.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		result = append(result, cloneCategory(c))
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return result, nil
}

func (r *CategoryRepository) Children(ctx context.Context, parentID *int64) ([]entity.Category, error) {
	defer r.store.lock(ctx)()

	result := make([]entity.Category, 0)
	for _, c := range r.store.categories {
		if parentID == nil && c.ParentID == nil || parentID != nil && c.HasParent(*parentID) {
			result = append(result, cloneCategory(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (entity.Category, error) {
	defer r.store.lock(ctx)()

	c, ok := r.store.categories[id]
	if !ok {
		return entity.Category{}, repository.ErrNotFound
	}
	return cloneCategory(c), nil
}

func (r *CategoryRepository) Create(ctx context.Context, c entity.Category) (entity.Category, error) {
	defer r.store.lock(ctx)()

	now := time.Now().UTC()
	c = cloneCategory(c)
	c.ID = r.store.nextCategoryID
	r.store.nextCategoryID++
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.store.categories[c.ID] = c
	return cloneCategory(c), nil
}

func (r *CategoryRepository) Update(ctx context.Context, c entity.Category) error {
	defer r.store.lock(ctx)()

	current, ok := r.store.categories[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c = cloneCategory(c)
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.store.categories[c.ID] = c
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.categories, id)
	return nil
}

func cloneCategory(c entity.Category) entity.Category {
	c.ParentID = copyID(c.ParentID)
	if c.ProductNamePrefix != nil {
		v := *c.ProductNamePrefix
		c.ProductNamePrefix = &v
	}
	return c
}
