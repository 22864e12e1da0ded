package session

import (
	"context"
	"sync"
	"time"
)

// Persistence stores session snapshots outside the process.
type Persistence interface {
	Save(ctx context.Context, id string, snap Snapshot) error
	Load(ctx context.Context, id string) (Snapshot, bool, error)
}

// expirer is implemented by stores that drop stale entries only when asked.
type expirer interface {
	DeleteExpired(now time.Time) int
}

type memEntry struct {
	snap      Snapshot
	expiresAt time.Time // zero => never
}

// MemoryStore keeps snapshots in the process. Used when Redis is not
// configured; sessions then do not survive a restart.
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]memEntry
	ttl time.Duration // <= 0 => entries never expire

	now func() time.Time
}

// NewMemoryStore returns a store whose entries expire ttl after their last
// save, like RedisStore keys.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		m:   make(map[string]memEntry),
		ttl: ttl,
		now: time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memEntry{snap: snap}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.m[id] = e
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[id]
	if !ok {
		return Snapshot{}, false, nil
	}
	if e.expired(s.now()) {
		delete(s.m, id)
		return Snapshot{}, false, nil
	}
	return e.snap, true, nil
}

// DeleteExpired drops every entry past its TTL and reports how many went.
func (s *MemoryStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.m {
		if e.expired(now) {
			delete(s.m, id)
			n++
		}
	}
	return n
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
