package inmemory

import (
	"context"
	"sync"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// Store holds categories and products in memory. Both repositories share it so
// that a transaction covers the whole dataset.
type Store struct {
	mu             sync.Mutex
	categories     map[int64]entity.Category
	products       map[int64]entity.Product
	nextCategoryID int64
	nextProductID  int64
}

var _ repository.TxManager = (*Store)(nil)

type txKey struct{}

func NewStore() *Store {
	return &Store{
		categories:     make(map[int64]entity.Category),
		products:       make(map[int64]entity.Product),
		nextCategoryID: 1,
		nextProductID:  1,
	}
}

// WithinTx serializes fn against every other store access and restores the
// previous state when fn returns an error.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(*Store)
	return v == s
}

// lock acquires the store unless ctx already runs inside its transaction.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	categories     map[int64]entity.Category
	products       map[int64]entity.Product
	nextCategoryID int64
	nextProductID  int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		categories:     make(map[int64]entity.Category, len(s.categories)),
		products:       make(map[int64]entity.Product, len(s.products)),
		nextCategoryID: s.nextCategoryID,
		nextProductID:  s.nextProductID,
	}
	for id, c := range s.categories {
		snap.categories[id] = c
	}
	for id, p := range s.products {
		snap.products[id] = p
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.categories = snap.categories
	s.products = snap.products
	s.nextCategoryID = snap.nextCategoryID
	s.nextProductID = snap.nextProductID
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyLinks(l entity.CategoryLinks) entity.CategoryLinks {
	return entity.CategoryLinks{
		CategoryID:       copyID(l.CategoryID),
		SubcategoryID:    copyID(l.SubcategoryID),
		SubsubcategoryID: copyID(l.SubsubcategoryID),
		CategoryID2:      copyID(l.CategoryID2),
	}
}
