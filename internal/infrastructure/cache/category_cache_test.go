package cache

import (
	"context"
	"testing"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

func TestCategoryCache(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCategoryCache(time.Minute)
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Fatalf("empty cache must miss")
	}
	c.SetIfCurrent(c.Generation(), []entity.Category{{ID: 1, Name: "Cameras"}})
	got, ok := c.Get()
	if !ok || len(got) != 1 || got[0].Name != "Cameras" {
		t.Fatalf("expected a hit, got %v %v", got, ok)
	}
	got[0].Name = "changed"
	if again, _ := c.Get(); again[0].Name != "Cameras" {
		t.Fatalf("callers must not alias the cached slice")
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get(); ok {
		t.Fatalf("expired entry must miss")
	}

	c.SetIfCurrent(c.Generation(), []entity.Category{{ID: 1}})
	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Fatalf("invalidated cache must miss")
	}
}

func TestCategoryCache_StaleGenerationIsDropped(t *testing.T) {
	c := NewCategoryCache(time.Minute)
	gen := c.Generation()
	c.Invalidate()

	if c.SetIfCurrent(gen, []entity.Category{{ID: 1}}) {
		t.Fatalf("a list read before Invalidate must not be stored")
	}
	if _, ok := c.Get(); ok {
		t.Fatalf("expected a miss after the dropped set")
	}
	if !c.SetIfCurrent(c.Generation(), []entity.Category{{ID: 1}}) {
		t.Fatalf("expected the current generation to be stored")
	}
}

// createAfterList runs create once, right after the wrapped List has read.
type createAfterList struct {
	repository.CategoryRepository
	create func()
}

func (r *createAfterList) List(ctx context.Context) ([]entity.Category, error) {
	all, err := r.CategoryRepository.List(ctx)
	if create := r.create; create != nil {
		r.create = nil
		create()
	}
	return all, err
}

func TestListAll_CreateDuringReadIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	repo := &createAfterList{CategoryRepository: inmemory.NewCategoryRepository(store)}
	links := usecase.NewLinkService(store, repo, inmemory.NewProductRepository(store))
	svc := usecase.NewCategoryService(store, repo, links).WithCache(NewCategoryCache(time.Minute))

	if _, err := svc.Create(ctx, usecase.CreateCategoryInput{Name: "Cameras"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.create = func() {
		if _, err := svc.Create(ctx, usecase.CreateCategoryInput{Name: "Lenses"}); err != nil {
			t.Errorf("create during list: %v", err)
		}
	}

	first, err := svc.ListAll(ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("expected the pre-create list, got %v %v", first, err)
	}
	second, err := svc.ListAll(ctx)
	if err != nil || len(second) != 2 {
		t.Fatalf("expected 2 categories after the concurrent create, got %v %v", second, err)
	}
}
