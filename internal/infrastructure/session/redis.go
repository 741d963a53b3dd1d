package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wichananm65/camera-store-backend/internal/catalog/filtersync"
)

const keyPrefix = "camera-store:session:"

// Key is the storage key of the filter snapshot of session id.
func Key(id string) string {
	return keyPrefix + id + ":" + filtersync.SnapshotKey
}

// OriginKey is the storage key of the navigation-origin marker of session id.
func OriginKey(id string) string {
	return keyPrefix + id + ":" + filtersync.OriginKey
}

// RedisStore keeps filter snapshots in Redis. Every write refreshes the TTL
// so snapshots of abandoned sessions expire on their own.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ filtersync.StorageFactory = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Session(id string) filtersync.Storage {
	return &redisSession{store: s, key: Key(id), originKey: OriginKey(id)}
}

type redisSession struct {
	store     *RedisStore
	key       string
	originKey string
}

func (s *redisSession) Load(ctx context.Context) ([]byte, bool, error) {
	v, err := s.store.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *redisSession) Save(ctx context.Context, data []byte) error {
	return s.store.client.Set(ctx, s.key, data, s.store.ttl).Err()
}

func (s *redisSession) Delete(ctx context.Context) error {
	return s.store.client.Del(ctx, s.key).Err()
}

func (s *redisSession) MarkOrigin(ctx context.Context) error {
	return s.store.client.Set(ctx, s.originKey, "1", s.store.ttl).Err()
}

// TakeOrigin reads and clears the marker in one GETDEL.
func (s *redisSession) TakeOrigin(ctx context.Context) (bool, error) {
	err := s.store.client.GetDel(ctx, s.originKey).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
