package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"example.com/ciphermind/internal/game"
	"example.com/ciphermind/internal/session"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorResponse{Code: errCode, Message: msg})
}

// playError maps an error from a session operation to an HTTP status and a
// stable error code.
func playError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidLength):
		return http.StatusUnprocessableEntity, "invalid_length"
	case errors.Is(err, game.ErrInvalidColor):
		return http.StatusUnprocessableEntity, "invalid_color"
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict, "game_over"
	case errors.Is(err, session.ErrGameInProgress):
		return http.StatusConflict, "game_in_progress"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writePlayError(w http.ResponseWriter, err error) {
	status, code := playError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}
