package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for a chat session token. The token binds a
// websocket or chat client to its session/profile pair; it is not an
// authentication scheme.
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	ProfileID string `json:"profileId,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokenResponse is returned when a chat session is opened
type SessionTokenResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
}
