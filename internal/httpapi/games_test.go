package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"example.com/ciphermind/internal/auth"
	"example.com/ciphermind/internal/game"
	"example.com/ciphermind/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroSource makes every secret RRRR.
type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

func newTestServer(t *testing.T) (*httptest.Server, *session.Service) {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test adjust the handler before routes are registered.
func newTestServerWith(t *testing.T, tweak func(h *GameHandler)) (*httptest.Server, *session.Service) {
	t.Helper()

	authSvc := auth.NewService([]byte("test-secret"))
	sessions := session.NewService(game.DefaultRules(), zeroSource{}, session.NewMemoryStore(time.Hour), time.Hour, nil)
	h := &GameHandler{
		Sessions: sessions,
		Tokens:   authSvc,
		Auth:     authSvc,
		TokenTTL: time.Hour,
	}
	if tweak != nil {
		tweak(h)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, sessions
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createGame(t *testing.T, ts *httptest.Server) CreateGameResponse {
	t.Helper()
	var created CreateGameResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/games", "", nil, &created)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, created.GameID)
	require.NotEmpty(t, created.Token)
	return created
}

func TestGames_PlayThrough(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createGame(t, ts)

	assert.Equal(t, game.StatusInProgress, created.View.State.Status)
	assert.Nil(t, created.View.State.Secret)

	base := ts.URL + "/api/games/" + created.GameID

	var gr GuessResponse
	code := doJSON(t, http.MethodPost, base+"/guesses", created.Token, GuessRequest{Guess: "rgrg"}, &gr)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, game.Feedback{Exact: 2, Color: 0}, gr.Feedback)
	assert.Equal(t, 1, gr.View.State.Attempt)
	assert.Nil(t, gr.View.State.Secret)

	code = doJSON(t, http.MethodPost, base+"/guesses", created.Token, GuessRequest{Guess: "RRRR"}, &gr)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, game.StatusWon, gr.View.State.Status)
	assert.Equal(t, "RRRR", gr.View.State.Secret.String())

	var errResp ErrorResponse
	code = doJSON(t, http.MethodPost, base+"/guesses", created.Token, GuessRequest{Guess: "RRRR"}, &errResp)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "game_over", errResp.Code)

	var view session.View
	code = doJSON(t, http.MethodPost, base+"/replay", created.Token, nil, &view)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, view.Games)
	assert.Equal(t, game.StatusInProgress, view.State.Status)

	code = doJSON(t, http.MethodGet, base, created.Token, nil, &view)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, view.State.Attempt)
}

func TestGames_Errors(t *testing.T) {
	ts, _ := newTestServer(t)
	g1 := createGame(t, ts)
	g2 := createGame(t, ts)

	forged, err := auth.Sign([]byte("other-secret"), g1.GameID, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name     string
		method   string
		path     string
		token    string
		body     any
		wantCode int
		wantErr  string
	}{
		{name: "invalid_length", method: http.MethodPost, path: "/api/games/" + g1.GameID + "/guesses", token: g1.Token, body: GuessRequest{Guess: "RGB"}, wantCode: http.StatusUnprocessableEntity, wantErr: "invalid_length"},
		{name: "invalid_color", method: http.MethodPost, path: "/api/games/" + g1.GameID + "/guesses", token: g1.Token, body: GuessRequest{Guess: "RGBX"}, wantCode: http.StatusUnprocessableEntity, wantErr: "invalid_color"},
		{name: "bad_json", method: http.MethodPost, path: "/api/games/" + g1.GameID + "/guesses", token: g1.Token, body: "not an object", wantCode: http.StatusBadRequest, wantErr: "bad_request"},
		{name: "replay_in_progress", method: http.MethodPost, path: "/api/games/" + g1.GameID + "/replay", token: g1.Token, wantCode: http.StatusConflict, wantErr: "game_in_progress"},
		{name: "missing_token", method: http.MethodGet, path: "/api/games/" + g1.GameID, wantCode: http.StatusUnauthorized, wantErr: "unauthorized"},
		{name: "forged_token", method: http.MethodGet, path: "/api/games/" + g1.GameID, token: forged, wantCode: http.StatusUnauthorized, wantErr: "unauthorized"},
		{name: "other_games_token", method: http.MethodGet, path: "/api/games/" + g1.GameID, token: g2.Token, wantCode: http.StatusForbidden, wantErr: "forbidden"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp ErrorResponse
			code := doJSON(t, tc.method, ts.URL+tc.path, tc.token, tc.body, &errResp)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantErr, errResp.Code)
		})
	}

	// none of the rejected guesses consumed an attempt
	var view session.View
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/games/"+g1.GameID, g1.Token, nil, &view))
	assert.Equal(t, 0, view.State.Attempt)
}

func TestGames_UnknownGame(t *testing.T) {
	ts, _ := newTestServer(t)
	token, err := auth.NewService([]byte("test-secret")).Sign("nope", time.Hour)
	require.NoError(t, err)

	var errResp ErrorResponse
	code := doJSON(t, http.MethodGet, ts.URL+"/api/games/nope", token, nil, &errResp)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", errResp.Code)
}
