package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTripThroughJSON(t *testing.T) {
	g := newTestGame(t, "RRGB")
	_, _, err := g.SubmitGuess("RGGG")
	require.NoError(t, err)
	_, _, err = g.SubmitGuess("BBRR")
	require.NoError(t, err)

	b, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(b, &snap))

	g2, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, g.State(), g2.State())
	assert.Equal(t, g.Reveal(), g2.Reveal())

	// restored game keeps playing from where it stopped
	_, st, err := g2.SubmitGuess("RRGB")
	require.NoError(t, err)
	assert.Equal(t, StatusWon, st.Status)
	assert.Equal(t, 3, st.Attempt)
}

func TestRestore_RejectsInconsistentSnapshots(t *testing.T) {
	valid := func() Snapshot {
		g := newTestGame(t, "RGBY")
		_, _, err := g.SubmitGuess("MMMM")
		require.NoError(t, err)
		return g.Snapshot()
	}

	cases := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"bad_rules", func(s *Snapshot) { s.Rules.MaxAttempts = 0 }},
		{"short_secret", func(s *Snapshot) { s.Secret = s.Secret[:3] }},
		{"attempts_mismatch", func(s *Snapshot) { s.Attempts = 2 }},
		{"wrong_feedback", func(s *Snapshot) { s.History[0].Feedback.Color = 3 }},
		{"wrong_number", func(s *Snapshot) { s.History[0].Number = 5 }},
		{"wrong_status", func(s *Snapshot) { s.Status = StatusWon }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			_, err := Restore(s)
			require.ErrorIs(t, err, errCorruptSnapshot)
		})
	}

	_, err := Restore(valid())
	require.NoError(t, err)
}
