package session

import (
	"context"
	"testing"
)

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, b := store.Session("a"), store.Session("b")

	if err := a.Save(ctx, []byte(`{"brands":["Canon"]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, _ := b.Load(ctx); ok {
		t.Fatalf("session b must not see session a's snapshot")
	}
	data, ok, err := store.Session("a").Load(ctx)
	if err != nil || !ok || string(data) != `{"brands":["Canon"]}` {
		t.Fatalf("unexpected load %q ok=%v err=%v", data, ok, err)
	}

	if err := a.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := a.Load(ctx); ok {
		t.Fatalf("expected snapshot removed")
	}
}

func TestMemoryStore_OriginMarkerIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := store.Session("a")

	if err := a.MarkOrigin(ctx); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if ok, _ := store.Session("b").TakeOrigin(ctx); ok {
		t.Fatalf("session b must not see session a's marker")
	}
	if ok, err := store.Session("a").TakeOrigin(ctx); err != nil || !ok {
		t.Fatalf("expected the marker, got %v %v", ok, err)
	}
	if ok, _ := a.TakeOrigin(ctx); ok {
		t.Fatalf("the marker must be cleared once taken")
	}
	if _, ok, _ := a.Load(ctx); ok {
		t.Fatalf("the marker must not be mistaken for a snapshot")
	}
}

func TestKey(t *testing.T) {
	if got := Key("abc"); got != "camera-store:session:abc:catalogFilters" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := OriginKey("abc"); got != "camera-store:session:abc:fromProduct" {
		t.Fatalf("unexpected origin key %q", got)
	}
}
