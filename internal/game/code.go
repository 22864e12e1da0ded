package game

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Color is one peg color. The zero value is Red.
type Color uint8

const (
	Red Color = iota
	Green
	Blue
	Yellow
	Magenta
	Cyan

	numColors = int(Cyan) + 1
)

// Palette is the fixed color alphabet, in symbol order.
var Palette = []Color{Red, Green, Blue, Yellow, Magenta, Cyan}

var colorSymbols = [numColors]byte{'R', 'G', 'B', 'Y', 'M', 'C'}

var colorNames = [numColors]string{"red", "green", "blue", "yellow", "magenta", "cyan"}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool { return int(c) < numColors }

// Symbol returns the single upper-case letter used to type c.
func (c Color) Symbol() byte {
	if !c.Valid() {
		return '?'
	}
	return colorSymbols[c]
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return colorNames[c]
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte{c.Symbol()}, nil
}

func (c *Color) UnmarshalText(b []byte) error {
	r, size := utf8.DecodeRune(b)
	if size == 0 || size != len(b) {
		return fmt.Errorf("color must be a single letter, got %q", b)
	}
	col, ok := ParseColor(r)
	if !ok {
		return &ColorError{Symbol: r}
	}
	*c = col
	return nil
}

// ParseColor maps a case-insensitive symbol to its Color.
func ParseColor(r rune) (Color, bool) {
	u := unicode.ToUpper(r)
	for i, s := range colorSymbols {
		if rune(s) == u {
			return Color(i), true
		}
	}
	return 0, false
}

// Code is an ordered sequence of colors: a secret or a guess.
type Code []Color

// String renders the code as its symbols, e.g. "RGBY".
func (c Code) String() string {
	var b strings.Builder
	b.Grow(len(c))
	for _, col := range c {
		b.WriteByte(col.Symbol())
	}
	return b.String()
}

// Equal reports whether both codes have the same colors in the same order.
func (c Code) Equal(o Code) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

func (c Code) MarshalText() ([]byte, error) {
	for i, col := range c {
		if !col.Valid() {
			return nil, fmt.Errorf("invalid color %d at position %d", uint8(col), i)
		}
	}
	return []byte(c.String()), nil
}

func (c *Code) UnmarshalText(b []byte) error {
	raw := strings.TrimSpace(string(b))
	code, err := ParseCode(raw, utf8.RuneCountInString(raw))
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// ParseCode decodes raw player input into a Code of exactly length colors.
// Surrounding whitespace is ignored and letters are case-insensitive.
// The length is checked before any symbol.
func ParseCode(raw string, length int) (Code, error) {
	raw = strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(raw); n != length {
		return nil, &LengthError{Got: n, Want: length}
	}

	code := make(Code, 0, length)
	pos := 0
	for _, r := range raw {
		col, ok := ParseColor(r)
		if !ok {
			return nil, &ColorError{Symbol: r, Position: pos}
		}
		code = append(code, col)
		pos++
	}
	return code, nil
}
