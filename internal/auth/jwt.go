package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims bind a token to exactly one game session.
type Claims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

// Verifier checks session tokens. Handlers depend on this rather than on
// Service so tests can swap it.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

type Service struct {
	secret []byte
}

func NewService(secret []byte) *Service {
	return &Service{secret: secret}
}

func (s *Service) Sign(gameID string, ttl time.Duration) (string, error) {
	return Sign(s.secret, gameID, ttl)
}

func (s *Service) Verify(token string) (*Claims, error) {
	return Verify(s.secret, token)
}

func Sign(secret []byte, gameID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func Verify(secret []byte, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.GameID == "" {
		return nil, errors.New("token has no game id")
	}
	return claims, nil
}
