package inmemory

import (
	"context"
	"sort"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// ProductRepository is an in-memory implementation of ProductRepository.
type ProductRepository struct {
	store *Store
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	defer r.store.lock(ctx)()

	result := make([]entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		result = append(result, cloneProduct(p))
	}
	sortByID(result)
	return result, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (entity.Product, error) {
	defer r.store.lock(ctx)()

	p, ok := r.store.products[id]
	if !ok {
		return entity.Product{}, repository.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) Create(ctx context.Context, p entity.Product) (entity.Product, error) {
	defer r.store.lock(ctx)()

	now := time.Now().UTC()
	p = cloneProduct(p)
	if p.ID == 0 {
		p.ID = r.store.nextProductID
	}
	if p.ID >= r.store.nextProductID {
		r.store.nextProductID = p.ID + 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.store.products[p.ID] = p
	return cloneProduct(p), nil
}

func (r *ProductRepository) ListReferencing(ctx context.Context, ids []int64) ([]entity.Product, error) {
	defer r.store.lock(ctx)()

	result := make([]entity.Product, 0)
	for _, p := range r.store.products {
		for _, id := range ids {
			if p.Links.References(id) {
				result = append(result, cloneProduct(p))
				break
			}
		}
	}
	sortByID(result)
	return result, nil
}

func (r *ProductRepository) UpdateLinks(ctx context.Context, id int64, links entity.CategoryLinks) error {
	defer r.store.lock(ctx)()

	p, ok := r.store.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Links = copyLinks(links)
	p.UpdatedAt = time.Now().UTC()
	r.store.products[id] = p
	return nil
}

func cloneProduct(p entity.Product) entity.Product {
	p.Links = copyLinks(p.Links)
	if p.Rating != nil {
		v := *p.Rating
		p.Rating = &v
	}
	return p
}

func sortByID(products []entity.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}
