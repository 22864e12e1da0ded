package game

import (
	"errors"
	"math/rand/v2"
)

// Source is the randomness a Generate call consumes.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the goroutine-safe top-level math/rand/v2 generator.
var DefaultSource Source = globalSource{}

// Generate draws a code of the given length, each position independently and
// uniformly from alphabet. Colors may repeat.
func Generate(src Source, length int, alphabet []Color) (Code, error) {
	if length < 1 {
		return nil, errors.New("generate: code length must be at least 1")
	}
	if len(alphabet) == 0 {
		return nil, errors.New("generate: alphabet is empty")
	}
	if src == nil {
		src = DefaultSource
	}

	code := make(Code, length)
	for i := range code {
		code[i] = alphabet[src.IntN(len(alphabet))]
	}
	return code, nil
}
