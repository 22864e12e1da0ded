package terminal

import (
	"fmt"
	"io"
	"strings"

	"example.com/ciphermind/internal/game"
)

const rule = "═══════════════════════════════════════════"

// Renderer turns game state into terminal output. It never reads input.
type Renderer struct {
	out   io.Writer
	color bool
}

func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) Welcome(rules game.Rules) {
	r.printf("\n%s\n", r.paint(Bold, "CIPHERMIND: the code-breaking challenge"))
	r.printf("%s\n\n", rule)
	r.printf("How to play:\n")
	r.printf("  • I've picked a secret code of %d colors (colors may repeat)\n", rules.CodeLength)
	r.printf("  • Available colors: ")
	for _, c := range game.Palette {
		r.printf("%s = %c  ", r.peg(c), c.Symbol())
	}
	r.printf("\n  • You have %d guesses to crack it\n", rules.MaxAttempts)
	r.printf("  • After each guess you get:\n")
	r.printf("    - EXACT: right color, right position\n")
	r.printf("    - COLOR: right color, wrong position\n")
	r.printf("\nEnter a guess as %d letters, like %s. Type 'quit' to give up.\n", rules.CodeLength, exampleGuess(rules.CodeLength))
}

func exampleGuess(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(game.Palette[(i*2)%len(game.Palette)].Symbol())
	}
	return b.String()
}

// Prompt is the input prompt for the next guess.
func (r *Renderer) Prompt(st game.State) string {
	return r.paint(Yellow, fmt.Sprintf("guess %d/%d", st.Attempt+1, st.MaxAttempts)) + " > "
}

func (r *Renderer) code(c game.Code) string {
	parts := make([]string, len(c))
	for i, col := range c {
		parts[i] = r.peg(col)
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) Attempt(a game.Attempt) {
	r.printf("  Guess %d: %s\n", a.Number, r.code(a.Guess))
	r.printf("  → %d exact, %d color%s\n", a.Feedback.Exact, a.Feedback.Color, plural(a.Feedback.Color))
}

// Hint prints encouragement after a guess that did not end the game.
func (r *Renderer) Hint(fb game.Feedback, st game.State) {
	r.printf("  %s\n", Hint(fb))
	if st.Remaining() <= 2 {
		r.printf("  %s\n", r.paint(Red, "Running out of guesses!"))
	}
}

// Hint picks a message from how many pegs are placed.
func Hint(fb game.Feedback) string {
	switch {
	case fb.Exact == 0 && fb.Color == 0:
		return "Hmm, try completely different colors!"
	case fb.Exact == 0:
		return "You have the right colors, just in the wrong positions!"
	case fb.Exact == 1:
		return "Getting warmer! One is in the right spot!"
	case fb.Exact == 2:
		return "Nice! Two are perfectly placed!"
	case fb.Exact == 3:
		return "So close! Just one more to go!"
	default:
		return "Keep analyzing the patterns..."
	}
}

func (r *Renderer) Invalid(err error) {
	r.printf("  %s %s\n", r.paint(Red, "✗"), err)
}

func (r *Renderer) Won(st game.State) {
	r.printf("\n%s\n", rule)
	r.printf("%s\n", r.paint(Green, "CONGRATULATIONS!"))
	word := "guesses"
	if st.Attempt == 1 {
		word = "guess"
	}
	r.printf("You cracked the code in %d %s!\n", st.Attempt, word)
	r.printf("%s\n", Rating(st.Attempt))
	r.printf("%s\n", rule)
}

// Rating grades a win by the number of attempts it took.
func Rating(attempts int) string {
	switch {
	case attempts == 1:
		return "INCREDIBLE! A hole-in-one!"
	case attempts <= 3:
		return "AMAZING! You're a master codebreaker!"
	case attempts <= 6:
		return "EXCELLENT! Great logical thinking!"
	default:
		return "Well done!"
	}
}

func (r *Renderer) Lost(st game.State) {
	r.printf("\n%s\n", rule)
	r.printf("%s\n", r.paint(Red, "GAME OVER!"))
	r.printf("You've used all %d attempts.\n", st.MaxAttempts)
	r.Reveal(st.Secret)
	r.printf("\nBetter luck next time! Each game is a new puzzle.\n")
	r.printf("%s\n", rule)
}

func (r *Renderer) Reveal(secret game.Code) {
	r.printf("  The code was: %s (%s)\n", r.code(secret), secret)
}

func (r *Renderer) Goodbye() {
	r.printf("\nThanks for playing CipherMind!\n")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
