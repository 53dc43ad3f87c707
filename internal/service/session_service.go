package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"opencivics/internal/model"
)

// SessionService mints and verifies chat session tokens.
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionService(secret string, ttl time.Duration) *SessionService {
	return &SessionService{secret: []byte(secret), ttl: ttl}
}

// Open creates a new session token, optionally bound to a profile.
func (s *SessionService) Open(profileID string) (*model.SessionTokenResponse, error) {
	sessionID := "s_" + uuid.NewString()[:8]
	now := time.Now()

	claims := model.SessionClaims{
		SessionID: sessionID,
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &model.SessionTokenResponse{Token: token, SessionID: sessionID}, nil
}

// Verify parses and validates a session token.
func (s *SessionService) Verify(token string) (*model.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &model.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := parsed.Claims.(*model.SessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token claims")
	}
	return claims, nil
}
