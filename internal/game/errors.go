package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength = errors.New("invalid length")
	ErrInvalidColor  = errors.New("invalid color")
	ErrGameOver      = errors.New("game already finished")
)

// LengthError reports a guess with the wrong number of symbols.
type LengthError struct {
	Got  int
	Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("invalid length: got %d symbols, want exactly %d", e.Got, e.Want)
}

func (e *LengthError) Unwrap() error { return ErrInvalidLength }

// ColorError reports the first symbol outside the palette.
type ColorError struct {
	Symbol   rune
	Position int // zero-based
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("invalid color %q at position %d (use only %s)", e.Symbol, e.Position+1, Code(Palette))
}

func (e *ColorError) Unwrap() error { return ErrInvalidColor }
