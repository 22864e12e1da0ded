package game

import "fmt"

// Feedback is the response to one guess.
type Feedback struct {
	Exact int `json:"exact"` // right color, right position
	Color int `json:"color"` // right color, wrong position
}

func (f Feedback) String() string {
	return fmt.Sprintf("%d exact, %d color", f.Exact, f.Color)
}

// Score compares guess against secret. Both must have the same length and
// hold only palette colors.
//
// Exact matches are counted first; the remaining positions of each side are
// then intersected as multisets, so one secret peg never answers two guess
// pegs. The result does not change when the arguments are swapped.
func Score(secret, guess Code) Feedback {
	var fb Feedback

	var cntS, cntG [numColors]int
	for i := range secret {
		if secret[i] == guess[i] {
			fb.Exact++
			continue
		}
		cntS[secret[i]]++
		cntG[guess[i]]++
	}

	for c := 0; c < numColors; c++ {
		fb.Color += min(cntS[c], cntG[c])
	}
	return fb
}
