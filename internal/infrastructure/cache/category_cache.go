package cache

import (
	"sync"
	"time"

	"github.com/wichananm65/camera-store-backend/internal/domain/entity"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

const DefaultTTL = 5 * time.Minute

// CategoryCache keeps the flattened category list for ttl. Category
// mutations call Invalidate, which also advances the generation so a list
// read before the mutation is never stored after it.
type CategoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	data      []entity.Category
	fetchedAt time.Time
	valid     bool
	gen       uint64
	now       func() time.Time
}

var _ usecase.CategoryCache = (*CategoryCache)(nil)

func NewCategoryCache(ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CategoryCache{ttl: ttl, now: time.Now}
}

func (c *CategoryCache) Get() ([]entity.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return clone(c.data), true
}

func (c *CategoryCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetIfCurrent stores categories only when no Invalidate happened since gen
// was read. It reports whether the list was stored.
func (c *CategoryCache) SetIfCurrent(gen uint64, categories []entity.Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.data = clone(categories)
	c.fetchedAt = c.now()
	c.valid = true
	return true
}

func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.valid = false
	c.gen++
	c.mu.Unlock()
}

// clone copies the slice; callers may sort or append to what they get.
func clone(in []entity.Category) []entity.Category {
	out := make([]entity.Category, len(in))
	copy(out, in)
	return out
}
