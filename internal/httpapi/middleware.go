package httpapi

import (
	"context"
	"net/http"
	"strings"

	"example.com/ciphermind/internal/auth"
)

type ctxKey string

const gameIDKey ctxKey = "gameID"

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

// AuthMiddleware requires a session token whose game id matches the {id}
// path value, and stores that id in the request context.
func AuthMiddleware(v auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			if id := r.PathValue("id"); id != "" && id != claims.GameID {
				writeError(w, http.StatusForbidden, "forbidden", "token belongs to another game")
				return
			}

			ctx := context.WithValue(r.Context(), gameIDKey, claims.GameID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GameIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(gameIDKey)
	s, ok := v.(string)
	return s, ok
}
