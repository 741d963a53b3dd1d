package session

import (
	"context"
	"sync"

	"github.com/wichananm65/camera-store-backend/internal/catalog/filtersync"
)

// MemoryStore keeps filter snapshots and origin markers in process memory.
// Used in tests and when no Redis address is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ filtersync.StorageFactory = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Session(id string) filtersync.Storage {
	return &memorySession{store: m, key: Key(id), originKey: OriginKey(id)}
}

type memorySession struct {
	store     *MemoryStore
	key       string
	originKey string
}

func (s *memorySession) Load(_ context.Context) ([]byte, bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	v, ok := s.store.data[s.key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *memorySession) Save(_ context.Context, data []byte) error {
	v := make([]byte, len(data))
	copy(v, data)
	s.store.mu.Lock()
	s.store.data[s.key] = v
	s.store.mu.Unlock()
	return nil
}

func (s *memorySession) Delete(_ context.Context) error {
	s.store.mu.Lock()
	delete(s.store.data, s.key)
	s.store.mu.Unlock()
	return nil
}

func (s *memorySession) MarkOrigin(_ context.Context) error {
	s.store.mu.Lock()
	s.store.data[s.originKey] = []byte("1")
	s.store.mu.Unlock()
	return nil
}

func (s *memorySession) TakeOrigin(_ context.Context) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	_, ok := s.store.data[s.originKey]
	delete(s.store.data, s.originKey)
	return ok, nil
}
