package game

import "fmt"

const (
	DefaultCodeLength  = 4
	DefaultMaxAttempts = 10
)

// Rules fixes the shape of a game.
type Rules struct {
	CodeLength  int `json:"codeLength"`
	MaxAttempts int `json:"maxAttempts"`
}

func DefaultRules() Rules {
	return Rules{CodeLength: DefaultCodeLength, MaxAttempts: DefaultMaxAttempts}
}

func (r Rules) Validate() error {
	if r.CodeLength < 1 {
		return fmt.Errorf("code length must be positive, got %d", r.CodeLength)
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be positive, got %d", r.MaxAttempts)
	}
	return nil
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Attempt is one accepted guess and the feedback it got.
type Attempt struct {
	Number   int      `json:"number"` // 1-based
	Guess    Code     `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

// State is a read-only view of a game for rendering.
// Secret is set only once the game is won or lost.
type State struct {
	Attempt     int       `json:"attempt"` // attempts used so far
	MaxAttempts int       `json:"maxAttempts"`
	CodeLength  int       `json:"codeLength"`
	Status      Status    `json:"status"`
	History     []Attempt `json:"history"`
	Secret      Code      `json:"secret,omitempty"`
}

// Remaining returns how many attempts are left.
func (s State) Remaining() int { return s.MaxAttempts - s.Attempt }

// Game is one round of play against a fixed secret. It is not safe for
// concurrent use; callers that share a Game must serialize access.
type Game struct {
	rules    Rules
	secret   Code
	attempts int
	history  []Attempt
	status   Status
}

// New starts a game with a secret drawn from src over the full palette.
func New(rules Rules, src Source) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	secret, err := Generate(src, rules.CodeLength, Palette)
	if err != nil {
		return nil, err
	}
	return newGame(rules, secret), nil
}

// NewWithSecret starts a game against a known secret.
func NewWithSecret(rules Rules, secret Code) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := checkCode(secret, rules.CodeLength); err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	return newGame(rules, append(Code(nil), secret...)), nil
}

func newGame(rules Rules, secret Code) *Game {
	return &Game{
		rules:  rules,
		secret: secret,
		status: StatusInProgress,
	}
}

func (g *Game) Rules() Rules { return g.rules }

func (g *Game) Status() Status { return g.status }

// SubmitGuess validates raw input, scores it and advances the game.
//
// Validation failures (ErrInvalidLength, ErrInvalidColor) leave the game
// untouched and do not consume an attempt. A finished game returns
// ErrGameOver.
func (g *Game) SubmitGuess(raw string) (Feedback, State, error) {
	if g.status.Terminal() {
		return Feedback{}, g.State(), ErrGameOver
	}

	guess, err := ParseCode(raw, g.rules.CodeLength)
	if err != nil {
		return Feedback{}, g.State(), err
	}

	fb := Score(g.secret, guess)

	g.attempts++
	g.history = append(g.history, Attempt{
		Number:   g.attempts,
		Guess:    guess,
		Feedback: fb,
	})

	switch {
	case fb.Exact == g.rules.CodeLength:
		g.status = StatusWon
	case g.attempts >= g.rules.MaxAttempts:
		g.status = StatusLost
	}

	return fb, g.State(), nil
}

// State returns a copy of the current state. The history and secret are not
// shared with the game.
func (g *Game) State() State {
	st := State{
		Attempt:     g.attempts,
		MaxAttempts: g.rules.MaxAttempts,
		CodeLength:  g.rules.CodeLength,
		Status:      g.status,
		History:     cloneHistory(g.history),
	}
	if g.status.Terminal() {
		st.Secret = append(Code(nil), g.secret...)
	}
	return st
}

// Reveal returns the secret regardless of status, for a player who gives up.
func (g *Game) Reveal() Code {
	return append(Code(nil), g.secret...)
}

func cloneHistory(h []Attempt) []Attempt {
	out := make([]Attempt, len(h))
	for i, a := range h {
		out[i] = Attempt{
			Number:   a.Number,
			Guess:    append(Code(nil), a.Guess...),
			Feedback: a.Feedback,
		}
	}
	return out
}

func checkCode(c Code, length int) error {
	if len(c) != length {
		return &LengthError{Got: len(c), Want: length}
	}
	for i, col := range c {
		if !col.Valid() {
			return &ColorError{Symbol: '?', Position: i}
		}
	}
	return nil
}
