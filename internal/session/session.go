package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"example.com/ciphermind/internal/game"
)

var ErrGameInProgress = errors.New("replay available only after the game finished")

// Session is one remote player's seat: the current game plus the count of
// games played in it. All methods are safe for concurrent use; calls are
// applied one at a time.
type Session struct {
	id string
	mu sync.Mutex

	rules game.Rules
	src   game.Source

	g         *game.Game
	games     int          // 1 for the first game, incremented on replay
	updatedAt atomic.Int64 // unix nanos of the last change

	// saveMu orders snapshot saves; it is taken before mu is released.
	saveMu    sync.Mutex
	onPersist func(Snapshot)
}

func newSession(id string, rules game.Rules, src game.Source) (*Session, error) {
	g, err := game.New(rules, src)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		id:    id,
		rules: rules,
		src:   src,
		g:     g,
		games: 1,
	}
	sess.touch(time.Now())
	return sess, nil
}

func (s *Session) ID() string { return s.id }

// UpdatedAt is when the session last changed. It does not take the session
// lock.
func (s *Session) UpdatedAt() time.Time { return time.Unix(0, s.updatedAt.Load()) }

func (s *Session) touch(t time.Time) { s.updatedAt.Store(t.UnixNano()) }

// View is what a player may see about a session.
type View struct {
	GameID string     `json:"gameId"`
	Games  int        `json:"games"`
	State  game.State `json:"state"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{GameID: s.id, Games: s.games, State: s.g.State()}
}

// SubmitGuess plays one guess. Rejected input leaves the session untouched.
func (s *Session) SubmitGuess(raw string) (game.Feedback, View, error) {
	s.mu.Lock()

	fb, _, err := s.g.SubmitGuess(raw)
	if err != nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return game.Feedback{}, v, err
	}

	s.touch(time.Now())
	v := s.viewLocked()
	s.persistAndUnlock()
	return fb, v, nil
}

// Replay discards a finished game and starts a new one with a fresh secret.
func (s *Session) Replay() (View, error) {
	s.mu.Lock()

	if !s.g.Status().Terminal() {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, ErrGameInProgress
	}

	g, err := game.New(s.rules, s.src)
	if err != nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, err
	}
	s.g = g
	s.games++
	s.touch(time.Now())

	v := s.viewLocked()
	s.persistAndUnlock()
	return v, nil
}

// persistAndUnlock releases mu and then saves the current snapshot, so reads
// of the session never wait on storage. Saves still land in mutation order.
func (s *Session) persistAndUnlock() {
	if s.onPersist == nil {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.saveMu.Lock()
	s.mu.Unlock()
	defer s.saveMu.Unlock()

	s.onPersist(snap)
}
