package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"example.com/ciphermind/internal/auth"
	"example.com/ciphermind/internal/game"
	"example.com/ciphermind/internal/session"
)

// TokenIssuer signs a session token for a game id.
type TokenIssuer interface {
	Sign(gameID string, ttl time.Duration) (string, error)
}

type GameHandler struct {
	Sessions *session.Service
	Tokens   TokenIssuer
	Auth     auth.Verifier
	TokenTTL time.Duration
	Log      *slog.Logger

	// WebSocket keepalive; zero values use the defaults.
	PingInterval time.Duration
	PongWait     time.Duration
}

type CreateGameResponse struct {
	GameID string       `json:"gameId"`
	Token  string       `json:"token"`
	View   session.View `json:"session"`
}

type GuessRequest struct {
	Guess string `json:"guess"`
}

type GuessResponse struct {
	Feedback game.Feedback `json:"feedback"`
	View     session.View  `json:"session"`
}

func (h *GameHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := AuthMiddleware(h.Auth)

	mux.HandleFunc("POST /api/games", h.Create)
	mux.Handle("GET /api/games/{id}", authed(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/games/{id}/guesses", authed(http.HandlerFunc(h.Guess)))
	mux.Handle("POST /api/games/{id}/replay", authed(http.HandlerFunc(h.Replay)))
	mux.HandleFunc("GET /ws/{id}", h.handleWS)
}

func (h *GameHandler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Create(r.Context())
	if err != nil {
		h.logger().Error("create session", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to create game")
		return
	}

	token, err := h.Tokens.Sign(sess.ID(), h.TokenTTL)
	if err != nil {
		h.logger().Error("sign token", "session", sess.ID(), "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	writeJSON(w, http.StatusCreated, CreateGameResponse{
		GameID: sess.ID(),
		Token:  token,
		View:   sess.View(),
	})
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	fb, view, err := sess.SubmitGuess(req.Guess)
	if err != nil {
		writePlayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GuessResponse{Feedback: fb, View: view})
}

func (h *GameHandler) Replay(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	view, err := sess.Replay()
	if err != nil {
		writePlayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *GameHandler) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := GameIDFromContext(r.Context())
	if !ok || id == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing auth context")
		return nil, false
	}

	sess, found, err := h.Sessions.GetOrLoad(r.Context(), id)
	if err != nil {
		h.logger().Error("load session", "session", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "storage error")
		return nil, false
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "game not found")
		return nil, false
	}
	return sess, true
}
