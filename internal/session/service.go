package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"example.com/ciphermind/internal/game"
	"github.com/google/uuid"
)

const saveTimeout = 2 * time.Second

// Service is responsible for:
// - the in-memory cache of live sessions
// - restoring sessions from persistent storage after a restart
// - forgetting sessions idle for longer than the TTL
type Service struct {
	mu sync.Mutex
	in map[string]*Session

	rules   game.Rules
	src     game.Source
	persist Persistence
	ttl     time.Duration // <= 0 => sessions never expire
	log     *slog.Logger

	now func() time.Time
}

func NewService(rules game.Rules, src game.Source, persist Persistence, ttl time.Duration, log *slog.Logger) *Service {
	if src == nil {
		src = game.DefaultSource
	}
	if persist == nil {
		persist = NewMemoryStore(ttl)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		in:      make(map[string]*Session),
		rules:   rules,
		src:     src,
		persist: persist,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) expired(updatedAt, now time.Time) bool {
	return s.ttl > 0 && now.Sub(updatedAt) > s.ttl
}

func (s *Service) Create(ctx context.Context) (*Session, error) {
	sess, err := newSession(uuid.NewString(), s.rules, s.src)
	if err != nil {
		return nil, err
	}
	sess.onPersist = s.persistHook(sess.id)

	sess.mu.Lock()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()
	if err := s.persist.Save(ctx, sess.id, snap); err != nil {
		s.log.Warn("session snapshot save failed", "session", sess.id, "err", err)
	}

	s.mu.Lock()
	s.in[sess.id] = sess
	s.mu.Unlock()

	s.log.Debug("session created", "session", sess.id)
	return sess, nil
}

func (s *Service) GetOrLoad(ctx context.Context, id string) (*Session, bool, error) {
	now := s.now()

	s.mu.Lock()
	sess, ok := s.in[id]
	if ok && s.expired(sess.UpdatedAt(), now) {
		delete(s.in, id)
		ok = false
	}
	s.mu.Unlock()
	if ok {
		return sess, true, nil
	}

	snap, found, err := s.persist.Load(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}

	sess, err = restore(snap, s.src)
	if err != nil {
		return nil, false, err
	}
	if s.expired(snap.UpdatedAt, now) {
		return nil, false, nil
	}
	sess.onPersist = s.persistHook(id)

	s.mu.Lock()
	// another request may have restored it first
	if cur, ok := s.in[id]; ok {
		s.mu.Unlock()
		return cur, true, nil
	}
	s.in[id] = sess
	s.mu.Unlock()

	s.log.Info("session restored", "session", id, "games", sess.games)
	return sess, true, nil
}

// Sweep drops cached sessions idle for longer than the TTL, along with
// expired entries of stores that do not expire on their own. It returns the
// number of cached sessions dropped.
func (s *Service) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	n := 0
	for id, sess := range s.in {
		if s.expired(sess.UpdatedAt(), now) {
			delete(s.in, id)
			n++
		}
	}
	s.mu.Unlock()

	if e, ok := s.persist.(expirer); ok {
		e.DeleteExpired(now)
	}
	return n
}

// Len is the number of cached sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.in)
}

// TTL is how long an idle session stays reachable.
func (s *Service) TTL() time.Duration { return s.ttl }

// persistHook saves with its own timeout, detached from any request context.
func (s *Service) persistHook(id string) func(Snapshot) {
	return func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.persist.Save(ctx, id, snap); err != nil {
			s.log.Warn("session snapshot save failed", "session", id, "err", err)
		}
	}
}
