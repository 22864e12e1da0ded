package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one JSON snapshot per session under a TTL that is
// refreshed on every save.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("session:%s:snapshot", id)
}

func (s *RedisStore) Save(ctx context.Context, id string, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.rdb.Set(ctx, s.key(id), b, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (Snapshot, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}
