package filtersync

import (
	"context"
	"testing"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
)

type fakeFactory map[string]*fakeStorage

func (f fakeFactory) Session(id string) Storage {
	if s, ok := f[id]; ok {
		return s
	}
	s := &fakeStorage{}
	f[id] = s
	return s
}

func TestRegistry_GetAndEvict(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(fakeFactory{}, resolver(), 12, time.Minute)
	r.now = func() time.Time { return now }

	a := r.Get("a")
	if r.Get("a") != a {
		t.Fatalf("expected the same session for the same id")
	}
	if a.Sync.Phase() != Idle {
		t.Fatalf("new session must start idle")
	}

	now = now.Add(45 * time.Second)
	r.Get("b")
	now = now.Add(30 * time.Second)

	if n := r.Evict(); n != 1 {
		t.Fatalf("expected one idle session evicted, got %d", n)
	}
	if r.Len() != 1 {
		t.Fatalf("expected b to survive, %d sessions left", r.Len())
	}
	if r.Get("a") == a {
		t.Fatalf("evicted session must be recreated")
	}
}

func TestRegistry_OriginMarkerSurvivesEviction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	storage := fakeFactory{}
	r := NewRegistry(storage, resolver(), 12, time.Minute)
	r.now = func() time.Time { return now }

	a := r.Get("a")
	if _, err := a.Sync.Navigate(ctx, Navigation{}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if _, err := a.Sync.Update(ctx, facet.State{Brands: []string{"Canon"}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := a.Context.MarkProductView(ctx); err != nil {
		t.Fatalf("mark: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if n := r.Evict(); n != 1 {
		t.Fatalf("expected the idle session evicted, got %d", n)
	}

	again := r.Get("a")
	rule, err := again.Sync.Navigate(ctx, Navigation{Category: "1"})
	if err != nil || rule != RuleRestored {
		t.Fatalf("expected the recreated session to restore, got %q (%v)", rule, err)
	}
	if st := again.Sync.State(); len(st.Brands) != 1 || st.Brands[0] != "Canon" {
		t.Fatalf("unexpected restored state %+v", st)
	}
}
