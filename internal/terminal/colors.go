package terminal

import "example.com/ciphermind/internal/game"

// Terminal color codes
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

const pegGlyph = "●"

var pegColors = map[game.Color]string{
	game.Red:     Red,
	game.Green:   Green,
	game.Blue:    Blue,
	game.Yellow:  Yellow,
	game.Magenta: Magenta,
	game.Cyan:    Cyan,
}

// paint wraps s in code when color output is on.
func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + Reset
}

// peg renders one color as a peg, or as its letter when color is off.
func (r *Renderer) peg(c game.Color) string {
	if !r.color {
		return string(c.Symbol())
	}
	code, ok := pegColors[c]
	if !ok {
		code = White
	}
	return code + pegGlyph + Reset
}
