package terminal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"example.com/ciphermind/internal/game"
	"github.com/chzyer/readline"
)

// LineReader is the part of *readline.Instance the shell uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Shell runs games on a terminal until the player quits.
type Shell struct {
	in    LineReader
	r     *Renderer
	rules game.Rules
	src   game.Source
	log   *slog.Logger
}

func NewShell(in LineReader, r *Renderer, rules game.Rules, src game.Source, log *slog.Logger) *Shell {
	if log == nil {
		log = slog.Default()
	}
	return &Shell{in: in, r: r, rules: rules, src: src, log: log}
}

// Run plays games back to back, each with a fresh secret, until the player
// quits or declines to play again.
func (s *Shell) Run() error {
	for {
		g, err := game.New(s.rules, s.src)
		if err != nil {
			return fmt.Errorf("new game: %w", err)
		}

		s.r.Welcome(s.rules)
		quit, err := s.play(g)
		if err != nil {
			return err
		}
		s.log.Debug("game ended", "status", g.Status(), "attempts", g.State().Attempt)
		if quit {
			s.r.Goodbye()
			return nil
		}

		again, err := s.askReplay()
		if err != nil {
			return err
		}
		if !again {
			s.r.Goodbye()
			return nil
		}
	}
}

// play reads guesses until the game ends. It reports true when the player
// gave up.
func (s *Shell) play(g *game.Game) (bool, error) {
	for !g.Status().Terminal() {
		s.in.SetPrompt(s.r.Prompt(g.State()))

		line, err := s.readLine()
		if errors.Is(err, errQuit) {
			s.r.Reveal(g.Reveal())
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") {
			s.r.Reveal(g.Reveal())
			return true, nil
		}

		fb, st, err := g.SubmitGuess(line)
		if errors.Is(err, game.ErrInvalidLength) || errors.Is(err, game.ErrInvalidColor) {
			s.r.Invalid(err)
			continue
		}
		if err != nil {
			return false, fmt.Errorf("submit guess: %w", err)
		}

		s.r.Attempt(st.History[len(st.History)-1])
		if !st.Status.Terminal() {
			s.r.Hint(fb, st)
		}
	}

	st := g.State()
	if st.Status == game.StatusWon {
		s.r.Won(st)
	} else {
		s.r.Lost(st)
	}
	return false, nil
}

func (s *Shell) askReplay() (bool, error) {
	s.in.SetPrompt("Play again? (y/n) > ")
	line, err := s.readLine()
	if errors.Is(err, errQuit) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

var errQuit = errors.New("input closed")

// readLine returns the trimmed next line; end of input and Ctrl-C map to errQuit.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.Readline()
	if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
		return "", errQuit
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
