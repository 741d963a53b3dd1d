package filtersync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
)

type fakeStorage struct {
	mu      sync.Mutex
	data    []byte
	ok      bool
	saves   int
	deletes int
	origin  bool
	loadErr error
}

func (f *fakeStorage) Load(context.Context) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	return f.data, f.ok, nil
}

func (f *fakeStorage) MarkOrigin(context.Context) error {
	f.mu.Lock()
	f.origin = true
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) TakeOrigin(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.origin
	f.origin = false
	return v, nil
}

func (f *fakeStorage) Save(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data, f.ok = data, true
	f.saves++
	return nil
}

func (f *fakeStorage) Delete(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data, f.ok = nil, false
	f.deletes++
	return nil
}

func (f *fakeStorage) stored(t *testing.T) facet.State {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ok {
		t.Fatalf("expected a stored snapshot")
	}
	s, err := facet.ParseState(f.data)
	if err != nil {
		t.Fatalf("stored snapshot: %v", err)
	}
	return s
}

var names = map[int64]string{1: "Cameras", 2: "Mirrorless", 3: "Lenses"}

func resolver() CategoryResolver {
	return ResolverFunc(func(_ context.Context, id int64) (string, bool, error) {
		name, ok := names[id]
		return name, ok, nil
	})
}

func newSync(storage *fakeStorage) (*Synchronizer, *SessionContext) {
	sc := NewSessionContext(storage)
	return New(sc, resolver()), sc
}

func TestNavigate_SnapshotBeatsURL(t *testing.T) {
	storage := &fakeStorage{}
	storage.Save(context.Background(), []byte(`{"brands":["Canon"]}`))
	s, sc := newSync(storage)

	sc.MarkProductView(context.Background())
	rule, err := s.Navigate(context.Background(), Navigation{Category: "3"})
	if err != nil || rule != RuleRestored {
		t.Fatalf("expected restore, got %q (%v)", rule, err)
	}
	st := s.State()
	if len(st.Brands) != 1 || st.Brands[0] != "Canon" || len(st.Categories) != 0 {
		t.Fatalf("expected the snapshot verbatim, got %+v", st)
	}
	if s.Phase() != FiltersSettled {
		t.Fatalf("expected settled, got %s", s.Phase())
	}
	if storage.saves != 1 {
		t.Fatalf("restore must not re-persist, saves=%d", storage.saves)
	}

	// the marker is single-use: the same navigation now follows the URL
	rule, _ = s.Navigate(context.Background(), Navigation{Category: "3"})
	if rule != RuleURL {
		t.Fatalf("expected url rule on second navigation, got %q", rule)
	}
}

func TestNavigate_FailedRestoreKeepsOriginMarker(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	storage.Save(ctx, []byte(`{"brands":["Canon"]}`))
	s, sc := newSync(storage)
	sc.MarkProductView(ctx)

	storage.mu.Lock()
	storage.loadErr = errors.New("connection reset")
	storage.mu.Unlock()
	if _, err := s.Navigate(ctx, Navigation{Category: "3"}); err == nil {
		t.Fatalf("expected the load error to be returned")
	}
	if s.Phase() != Idle {
		t.Fatalf("a failed navigation must leave the phase unchanged, got %s", s.Phase())
	}

	storage.mu.Lock()
	storage.loadErr = nil
	storage.mu.Unlock()
	rule, err := s.Navigate(ctx, Navigation{Category: "3"})
	if err != nil || rule != RuleRestored {
		t.Fatalf("expected the retried navigation to restore, got %q (%v)", rule, err)
	}
}

func TestNavigate_RestoredStateIsWriteBaseline(t *testing.T) {
	storage := &fakeStorage{}
	storage.Save(context.Background(), []byte(`{"brands":["Canon"]}`))
	s, sc := newSync(storage)
	sc.MarkProductView(context.Background())
	if _, err := s.Navigate(context.Background(), Navigation{}); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	written, err := s.Update(context.Background(), facet.State{Brands: []string{"Canon"}})
	if err != nil || written {
		t.Fatalf("re-applying the restored state must not write, written=%v err=%v", written, err)
	}
	written, _ = s.Update(context.Background(), facet.State{Brands: []string{"Canon", "Sony"}})
	if !written || storage.saves != 2 {
		t.Fatalf("expected a write for a real change, saves=%d", storage.saves)
	}
}

func TestNavigate_URLCategory(t *testing.T) {
	storage := &fakeStorage{}
	s, _ := newSync(storage)
	if _, err := s.Update(context.Background(), facet.State{Brands: []string{"Sony"}, Search: "a7"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	rule, err := s.Navigate(context.Background(), Navigation{Category: "1", Subcategory: "2"})
	if err != nil || rule != RuleURL {
		t.Fatalf("expected url rule, got %q (%v)", rule, err)
	}
	st := s.State()
	want := facet.State{Categories: []string{"Cameras"}, Subcategories: []string{"Mirrorless"}}
	if st.Key() != want.Key() {
		t.Fatalf("expected %s, got %s", want.Key(), st.Key())
	}
	if got := storage.stored(t); got.Key() != want.Key() {
		t.Fatalf("url state must become the stored baseline, got %s", got.Key())
	}

	rule, _ = s.Navigate(context.Background(), Navigation{Category: "Film cameras"})
	if rule != RuleURL || s.State().Categories[0] != "Film cameras" {
		t.Fatalf("string parameter must be used as-is, got %+v", s.State())
	}
}

func TestNavigate_UnknownNumericCategoryIsAbsent(t *testing.T) {
	storage := &fakeStorage{}
	s, _ := newSync(storage)
	s.Update(context.Background(), facet.State{Brands: []string{"Sony"}})

	rule, err := s.Navigate(context.Background(), Navigation{Category: "404"})
	if err != nil || rule != RuleUnchanged {
		t.Fatalf("expected unchanged, got %q (%v)", rule, err)
	}
	if st := s.State(); len(st.Brands) != 1 {
		t.Fatalf("state must be untouched, got %+v", st)
	}
}

func TestNavigate_ExternalResets(t *testing.T) {
	storage := &fakeStorage{}
	storage.Save(context.Background(), []byte(`{"brands":["Canon"]}`))
	s, _ := newSync(storage)
	s.Update(context.Background(), facet.State{Brands: []string{"Sony"}})

	rule, err := s.Navigate(context.Background(), Navigation{External: true})
	if err != nil || rule != RuleReset {
		t.Fatalf("expected reset, got %q (%v)", rule, err)
	}
	if !s.State().IsEmpty() || storage.deletes != 1 || storage.ok {
		t.Fatalf("expected empty state and dropped snapshot")
	}
	if written, _ := s.Update(context.Background(), facet.State{}); written {
		t.Fatalf("empty state after reset must not be written")
	}
}

func TestNavigate_InternalKeepsState(t *testing.T) {
	storage := &fakeStorage{}
	s, _ := newSync(storage)
	s.Update(context.Background(), facet.State{Brands: []string{"Sony"}})

	rule, err := s.Navigate(context.Background(), Navigation{})
	if err != nil || rule != RuleUnchanged {
		t.Fatalf("expected unchanged, got %q (%v)", rule, err)
	}
	if st := s.State(); len(st.Brands) != 1 || st.Brands[0] != "Sony" {
		t.Fatalf("state changed: %+v", st)
	}
	if storage.saves != 0 {
		t.Fatalf("nothing must be stored before filters settle, saves=%d", storage.saves)
	}
}

func TestNavigate_CorruptSnapshotFallsThrough(t *testing.T) {
	storage := &fakeStorage{}
	storage.Save(context.Background(), []byte(`{"brands":[`))
	s, sc := newSync(storage)
	sc.MarkProductView(context.Background())

	rule, err := s.Navigate(context.Background(), Navigation{Category: "3"})
	if err != nil || rule != RuleURL {
		t.Fatalf("expected the url rule after a corrupt snapshot, got %q (%v)", rule, err)
	}
	if st := s.State(); st.Categories[0] != "Lenses" {
		t.Fatalf("unexpected state %+v", st)
	}

	storage.Save(context.Background(), []byte(`not json`))
	sc.MarkProductView(context.Background())
	rule, err = s.Navigate(context.Background(), Navigation{External: true})
	if err != nil || rule != RuleReset {
		t.Fatalf("expected reset after a corrupt snapshot, got %q (%v)", rule, err)
	}
}

func TestSynchronizer_UpdateDeduplicatesWrites(t *testing.T) {
	storage := &fakeStorage{}
	s, _ := newSync(storage)
	ctx := context.Background()
	if _, err := s.Navigate(ctx, Navigation{}); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	steps := []struct {
		state facet.State
		write bool
	}{
		{facet.State{Brands: []string{"Sony"}}, true},
		{facet.State{Brands: []string{" Sony", "Sony"}}, false},
		{facet.State{Brands: []string{"Sony"}, Sort: facet.SortNewest}, true},
		{facet.State{Brands: []string{"Sony"}, Sort: facet.SortNewest}, false},
		{facet.State{}, true},
	}
	for i, step := range steps {
		written, err := s.Update(ctx, step.state)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if written != step.write {
			t.Fatalf("step %d: expected write=%v", i, step.write)
		}
	}
	if storage.saves != 3 {
		t.Fatalf("expected 3 writes, got %d", storage.saves)
	}

	if _, err := s.Update(ctx, facet.State{Sort: "cheapest"}); !errors.Is(err, facet.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

type blockingResolver struct {
	entered chan struct{}
	release chan struct{}
}

func (b blockingResolver) CategoryName(ctx context.Context, id int64) (string, bool, error) {
	close(b.entered)
	<-b.release
	return names[id], true, nil
}

func TestNavigate_ConcurrentNavigationIsIgnored(t *testing.T) {
	storage := &fakeStorage{}
	r := blockingResolver{entered: make(chan struct{}), release: make(chan struct{})}
	s := New(NewSessionContext(storage), r)

	done := make(chan Rule)
	go func() {
		rule, _ := s.Navigate(context.Background(), Navigation{Category: "1"})
		done <- rule
	}()
	<-r.entered

	if s.Phase() != ProcessingNavigation {
		t.Fatalf("expected processing, got %s", s.Phase())
	}
	if _, err := s.Navigate(context.Background(), Navigation{External: true}); !errors.Is(err, ErrNavigationInProgress) {
		t.Fatalf("expected ErrNavigationInProgress, got %v", err)
	}

	close(r.release)
	select {
	case rule := <-done:
		if rule != RuleURL {
			t.Fatalf("expected the first navigation to win, got %q", rule)
		}
	case <-time.After(time.Second):
		t.Fatalf("navigation did not finish")
	}
	if st := s.State(); len(st.Categories) != 1 || st.Categories[0] != "Cameras" {
		t.Fatalf("unexpected state %+v", st)
	}
	if storage.deletes != 0 {
		t.Fatalf("ignored navigation must have no effect")
	}
}
