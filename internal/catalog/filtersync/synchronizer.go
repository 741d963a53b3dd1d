package filtersync

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
)

type Phase int

const (
	Idle Phase = iota
	ProcessingNavigation
	FiltersSettled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ProcessingNavigation:
		return "processing_navigation"
	case FiltersSettled:
		return "filters_settled"
	default:
		return "unknown"
	}
}

// Rule names the branch a navigation settled through.
type Rule string

const (
	RuleRestored  Rule = "restored"
	RuleURL       Rule = "url"
	RuleReset     Rule = "reset"
	RuleUnchanged Rule = "unchanged"
)

// Navigation is one entry into the catalog view. Category and Subcategory
// are the raw query parameters: numeric values are category ids, anything
// else is used as a name. External is set when the user arrived from
// outside the catalog flow.
type Navigation struct {
	Category    string
	Subcategory string
	External    bool
}

// CategoryResolver looks up a category name by id. ok is false when the
// category does not exist.
type CategoryResolver interface {
	CategoryName(ctx context.Context, id int64) (name string, ok bool, err error)
}

type ResolverFunc func(ctx context.Context, id int64) (string, bool, error)

func (f ResolverFunc) CategoryName(ctx context.Context, id int64) (string, bool, error) {
	return f(ctx, id)
}

// Synchronizer decides on every navigation which of the live state, the URL
// and the stored snapshot wins, and mirrors settled user changes to storage.
type Synchronizer struct {
	mu       sync.Mutex
	session  *SessionContext
	resolver CategoryResolver

	phase       Phase
	state       facet.State
	lastWritten string
}

func New(session *SessionContext, resolver CategoryResolver) *Synchronizer {
	return &Synchronizer{session: session, resolver: resolver}
}

func (s *Synchronizer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Synchronizer) State() facet.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Navigate applies, in priority order:
//  1. returning from a product page with a stored snapshot: restore it;
//  2. a URL category: select it alone, with the URL subcategory if any;
//  3. an external arrival: clear every facet and drop the snapshot;
//  4. otherwise keep the live state.
//
// The origin marker is consumed by every navigation that succeeds.
func (s *Synchronizer) Navigate(ctx context.Context, nav Navigation) (Rule, error) {
	s.mu.Lock()
	if s.phase == ProcessingNavigation {
		s.mu.Unlock()
		return "", ErrNavigationInProgress
	}
	prev := s.phase
	s.phase = ProcessingNavigation
	s.mu.Unlock()

	fromProduct, err := s.session.takeOrigin(ctx)
	var (
		rule Rule
		next facet.State
	)
	if err == nil {
		rule, next, err = s.decide(ctx, nav, fromProduct)
		if err != nil && fromProduct {
			// a failed navigation must not use up the marker
			if merr := s.session.MarkProductView(ctx); merr != nil {
				log.Warn().Err(merr).Msg("navigation origin marker lost")
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.phase = prev
		return "", err
	}
	switch rule {
	case RuleRestored:
		s.state = next
		s.lastWritten = next.Key()
	case RuleURL, RuleReset:
		s.state = next
	}
	s.phase = FiltersSettled
	log.Debug().Str("rule", string(rule)).Str("state", s.state.Key()).Msg("catalog navigation settled")
	return rule, nil
}

// decide runs without the lock held; it performs storage and resolver I/O.
func (s *Synchronizer) decide(ctx context.Context, nav Navigation, fromProduct bool) (Rule, facet.State, error) {
	storage := s.session.Storage()

	if fromProduct {
		restored, ok, err := s.restore(ctx)
		if err != nil {
			return "", facet.State{}, err
		}
		if ok {
			return RuleRestored, restored, nil
		}
	}

	category, err := s.resolve(ctx, nav.Category)
	if err != nil {
		return "", facet.State{}, err
	}
	if category != "" {
		next := facet.State{Categories: []string{category}}
		sub, err := s.resolve(ctx, nav.Subcategory)
		if err != nil {
			return "", facet.State{}, err
		}
		if sub != "" {
			next.Subcategories = []string{sub}
		}
		next = next.Normalize()
		if err := s.write(ctx, next.Key()); err != nil {
			return "", facet.State{}, err
		}
		return RuleURL, next, nil
	}

	if nav.External {
		if err := storage.Delete(ctx); err != nil {
			return "", facet.State{}, fmt.Errorf("drop filter snapshot: %w", err)
		}
		s.mu.Lock()
		s.lastWritten = facet.State{}.Key()
		s.mu.Unlock()
		return RuleReset, facet.State{}, nil
	}

	return RuleUnchanged, facet.State{}, nil
}

// restore loads the stored snapshot. A corrupt snapshot is logged and
// reported as absent.
func (s *Synchronizer) restore(ctx context.Context) (facet.State, bool, error) {
	data, ok, err := s.session.Storage().Load(ctx)
	if err != nil {
		return facet.State{}, false, fmt.Errorf("load filter snapshot: %w", err)
	}
	if !ok {
		return facet.State{}, false, nil
	}
	st, err := facet.ParseState(data)
	if err != nil {
		rerr := &StateRestoreError{Err: err}
		log.Warn().Err(rerr).Msg("ignoring filter snapshot")
		return facet.State{}, false, nil
	}
	return st, true, nil
}

// resolve turns a URL parameter into a category name. Unknown ids resolve
// to the empty string.
func (s *Synchronizer) resolve(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw, nil
	}
	name, ok, err := s.resolver.CategoryName(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve category %d: %w", id, err)
	}
	if !ok {
		log.Debug().Int64("category_id", id).Msg("url category not found")
		return "", nil
	}
	return strings.TrimSpace(name), nil
}

// Update replaces the live state after a user change. The change is stored
// only once filters have settled and only when its serialized form differs
// from the last value written. It reports whether storage was written.
func (s *Synchronizer) Update(ctx context.Context, st facet.State) (bool, error) {
	if err := st.Validate(); err != nil {
		return false, err
	}
	st = st.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	if s.phase != FiltersSettled {
		return false, nil
	}
	key := st.Key()
	if key == s.lastWritten {
		return false, nil
	}
	if err := s.session.Storage().Save(ctx, []byte(key)); err != nil {
		return false, fmt.Errorf("save filter snapshot: %w", err)
	}
	s.lastWritten = key
	return true, nil
}

// write stores key unless it is the last value written.
func (s *Synchronizer) write(ctx context.Context, key string) error {
	s.mu.Lock()
	same := key == s.lastWritten
	s.mu.Unlock()
	if same {
		return nil
	}
	if err := s.session.Storage().Save(ctx, []byte(key)); err != nil {
		return fmt.Errorf("save filter snapshot: %w", err)
	}
	s.mu.Lock()
	s.lastWritten = key
	s.mu.Unlock()
	return nil
}
