package filtersync

import (
	"context"
	"fmt"
)

// SnapshotKey is the well-known storage key of the filter snapshot.
const SnapshotKey = "catalogFilters"

// OriginKey is the storage key of the navigation-origin marker.
const OriginKey = "fromProduct"

// Storage is session-scoped storage for the serialized filter snapshot and
// the one-shot navigation-origin marker. Load reports ok == false when
// nothing is stored. TakeOrigin reports whether the marker was set and
// clears it.
type Storage interface {
	Load(ctx context.Context) (data []byte, ok bool, err error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
	MarkOrigin(ctx context.Context) error
	TakeOrigin(ctx context.Context) (bool, error)
}

// StorageFactory hands out the storage of one session.
type StorageFactory interface {
	Session(id string) Storage
}

// SessionContext holds the per-session values the synchronizer reads. Both
// the snapshot and the origin marker live in storage, so they survive the
// in-process session being evicted.
type SessionContext struct {
	storage Storage
}

func NewSessionContext(storage Storage) *SessionContext {
	return &SessionContext{storage: storage}
}

// MarkProductView records that the user is on a product detail page, so the
// next navigation into the catalog restores the saved filters.
func (c *SessionContext) MarkProductView(ctx context.Context) error {
	if err := c.storage.MarkOrigin(ctx); err != nil {
		return fmt.Errorf("mark navigation origin: %w", err)
	}
	return nil
}

// takeOrigin returns and clears the marker.
func (c *SessionContext) takeOrigin(ctx context.Context) (bool, error) {
	v, err := c.storage.TakeOrigin(ctx)
	if err != nil {
		return false, fmt.Errorf("read navigation origin: %w", err)
	}
	return v, nil
}

func (c *SessionContext) Storage() Storage {
	return c.storage
}
