package game

import (
	"errors"
	"fmt"
)

var errCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot is the serializable form of a Game, including its secret.
// It must never be sent to a player.
type Snapshot struct {
	Rules    Rules     `json:"rules"`
	Secret   Code      `json:"secret"`
	Attempts int       `json:"attempts"`
	History  []Attempt `json:"history"`
	Status   Status    `json:"status"`
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Rules:    g.rules,
		Secret:   append(Code(nil), g.secret...),
		Attempts: g.attempts,
		History:  cloneHistory(g.history),
		Status:   g.status,
	}
}

// Restore rebuilds a Game from a snapshot, rejecting any snapshot that could
// not have been produced by SubmitGuess.
func Restore(s Snapshot) (*Game, error) {
	if err := s.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptSnapshot, err)
	}
	if err := checkCode(s.Secret, s.Rules.CodeLength); err != nil {
		return nil, fmt.Errorf("%w: secret: %v", errCorruptSnapshot, err)
	}
	if s.Attempts != len(s.History) || s.Attempts > s.Rules.MaxAttempts {
		return nil, fmt.Errorf("%w: %d attempts with %d history entries", errCorruptSnapshot, s.Attempts, len(s.History))
	}

	status := StatusInProgress
	for i, a := range s.History {
		if status.Terminal() {
			return nil, fmt.Errorf("%w: attempt %d after game end", errCorruptSnapshot, a.Number)
		}
		if a.Number != i+1 {
			return nil, fmt.Errorf("%w: attempt %d out of order", errCorruptSnapshot, a.Number)
		}
		if err := checkCode(a.Guess, s.Rules.CodeLength); err != nil {
			return nil, fmt.Errorf("%w: attempt %d: %v", errCorruptSnapshot, a.Number, err)
		}
		if Score(s.Secret, a.Guess) != a.Feedback {
			return nil, fmt.Errorf("%w: attempt %d feedback mismatch", errCorruptSnapshot, a.Number)
		}
		switch {
		case a.Feedback.Exact == s.Rules.CodeLength:
			status = StatusWon
		case a.Number >= s.Rules.MaxAttempts:
			status = StatusLost
		}
	}
	if status != s.Status {
		return nil, fmt.Errorf("%w: status %q, history implies %q", errCorruptSnapshot, s.Status, status)
	}

	g := newGame(s.Rules, append(Code(nil), s.Secret...))
	g.attempts = s.Attempts
	g.history = cloneHistory(s.History)
	g.status = s.Status
	return g, nil
}
