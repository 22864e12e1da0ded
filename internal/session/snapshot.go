package session

import (
	"fmt"
	"time"

	"example.com/ciphermind/internal/game"
)

// Snapshot is the serializable state of a live session, kept so a session
// survives a server restart until its TTL expires.
type Snapshot struct {
	ID        string        `json:"id"`
	Games     int           `json:"games"`
	Game      game.Snapshot `json:"game"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        s.id,
		Games:     s.games,
		Game:      s.g.Snapshot(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func restore(snap Snapshot, src game.Source) (*Session, error) {
	g, err := game.Restore(snap.Game)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", snap.ID, err)
	}
	games := snap.Games
	if games < 1 {
		games = 1
	}
	sess := &Session{
		id:    snap.ID,
		rules: g.Rules(),
		src:   src,
		g:     g,
		games: games,
	}
	sess.touch(snap.UpdatedAt)
	return sess, nil
}
