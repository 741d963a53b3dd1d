package seed

import (
	"context"
	"testing"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

func TestRun_SeedsOnceAndLinksProducts(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	categoryRepo := inmemory.NewCategoryRepository(store)
	productRepo := inmemory.NewProductRepository(store)
	links := usecase.NewLinkService(store, categoryRepo, productRepo)
	categories := usecase.NewCategoryService(store, categoryRepo, links)

	res, err := Run(ctx, categories, productRepo)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if res.Skipped || res.Categories != 16 || res.Products != len(products) {
		t.Fatalf("unexpected result %+v", res)
	}

	again, err := Run(ctx, categories, productRepo)
	if err != nil || !again.Skipped {
		t.Fatalf("expected the second run to skip, got %+v %v", again, err)
	}

	all, _ := categories.ListAll(ctx)
	items, _ := productRepo.List(ctx)
	projected := facet.Project(items, all)

	fullFrame := facet.Filter(projected, facet.State{Subsubcategories: []string{"Full frame"}})
	if len(fullFrame) != 2 {
		t.Fatalf("expected 2 full frame cameras, got %d", len(fullFrame))
	}
	if fullFrame[0].DisplayName != "Mirrorless camera Sony A7 IV" {
		t.Fatalf("unexpected display name %q", fullFrame[0].DisplayName)
	}

	video := facet.Filter(projected, facet.State{Categories: []string{"Video cameras"}})
	if len(video) != 2 {
		t.Fatalf("expected the secondary category to match, got %d items", len(video))
	}
}

func TestLinksFor_UnknownPath(t *testing.T) {
	if _, err := linksFor(map[string]int64{"Cameras": 1}, "Cameras/DSLR", ""); err == nil {
		t.Fatalf("expected an error for an unknown path")
	}
}
