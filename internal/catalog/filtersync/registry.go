package filtersync

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
)

// Session bundles the per-visitor catalog state kept by the API.
type Session struct {
	ID      string
	Context *SessionContext
	Sync    *Synchronizer
	View    *facet.View

	lastSeen time.Time
}

// Registry keeps one Session per session id and evicts idle ones. Evicted
// sessions lose their live state only; the stored snapshot outlives them.
type Registry struct {
	mu       sync.Mutex
	storage  StorageFactory
	resolver CategoryResolver
	pageSize int
	idle     time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry(storage StorageFactory, resolver CategoryResolver, pageSize int, idle time.Duration) *Registry {
	return &Registry{
		storage:  storage,
		resolver: resolver,
		pageSize: pageSize,
		idle:     idle,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		sc := NewSessionContext(r.storage.Session(id))
		s = &Session{
			ID:      id,
			Context: sc,
			Sync:    New(sc, r.resolver),
			View:    facet.NewView(r.pageSize),
		}
		r.sessions[id] = s
	}
	s.lastSeen = r.now()
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops sessions not used for longer than the idle timeout and
// returns how many were removed.
func (r *Registry) Evict() int {
	if r.idle <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.idle)
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				log.Debug().Int("sessions", n).Msg("evicted idle catalog sessions")
			}
		}
	}
}
