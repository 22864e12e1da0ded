package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"example.com/ciphermind/internal/game"
	"example.com/ciphermind/internal/session"
	"github.com/gorilla/websocket"
)

const (
	defaultPingInterval = 25 * time.Second
	defaultPongWait     = 60 * time.Second

	// client messages are small envelopes; anything bigger closes the socket
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SubmitGuessPayload struct {
	Guess string `json:"guess"`
}

type GuessResultPayload struct {
	Feedback game.Feedback `json:"feedback"`
	View     session.View  `json:"session"`
}

type clientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func (c *clientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

func (c *clientConn) push(env Envelope) {
	b, _ := json.Marshal(env)
	select {
	case c.send <- b:
	default:
		// slow reader; drop rather than block the game
	}
}

func (c *clientConn) pushError(code, msg string) {
	c.push(Envelope{Type: "error", Payload: mustJSON(ErrorResponse{Code: code, Message: msg})})
}

// wsToken reads the session token from the token query parameter, falling
// back to an Authorization bearer header.
func wsToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	t, _ := bearerToken(r)
	return t
}

// handleWS is the WebSocket entry to a session: /ws/{id}?token=...
func (h *GameHandler) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	token := wsToken(r)
	if id == "" || token == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing game id or token")
		return
	}

	claims, err := h.Auth.Verify(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
		return
	}
	if claims.GameID != id {
		writeError(w, http.StatusForbidden, "forbidden", "token belongs to another game")
		return
	}

	sess, ok, err := h.Sessions.GetOrLoad(r.Context(), id)
	if err != nil {
		h.logger().Error("load session", "session", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "storage error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "game not found")
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	cc := &clientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
	defer cc.Close()

	pingInterval, pongWait := h.keepalive()
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	// writer loop
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					return
				}
				_ = ws.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				_ = ws.WriteMessage(websocket.PingMessage, []byte{})
			}
		}
	}()

	h.logger().Debug("ws connected", "session", id)
	cc.push(Envelope{Type: "state", Payload: mustJSON(sess.View())})

	// reader loop
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			cc.pushError("bad_json", "invalid json")
			continue
		}

		switch env.Type {
		case "submit_guess":
			var p SubmitGuessPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				cc.pushError("bad_input", "invalid payload")
				continue
			}
			fb, view, err := sess.SubmitGuess(p.Guess)
			if err != nil {
				_, code := playError(err)
				cc.pushError(code, err.Error())
				continue
			}
			cc.push(Envelope{Type: "guess_result", Payload: mustJSON(GuessResultPayload{Feedback: fb, View: view})})

		case "replay":
			view, err := sess.Replay()
			if err != nil {
				_, code := playError(err)
				cc.pushError(code, err.Error())
				continue
			}
			cc.push(Envelope{Type: "state", Payload: mustJSON(view)})

		case "state":
			cc.push(Envelope{Type: "state", Payload: mustJSON(sess.View())})

		default:
			cc.pushError("unknown_type", "unknown message type")
		}
	}

	h.logger().Debug("ws disconnected", "session", id)
}

// keepalive returns the ping period and how long a silent peer is kept.
func (h *GameHandler) keepalive() (time.Duration, time.Duration) {
	ping, wait := h.PingInterval, h.PongWait
	if ping <= 0 {
		ping = defaultPingInterval
	}
	if wait <= 0 {
		wait = defaultPongWait
	}
	return ping, wait
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
