package middleware

import (
	"context"
	"net/http"
	"strings"

	"opencivics/internal/service"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionId"
	ProfileIDKey contextKey = "profileId"
)

// SessionMiddleware validates chat session tokens
type SessionMiddleware struct {
	sessionSvc *service.SessionService
}

func NewSessionMiddleware(sessionSvc *service.SessionService) *SessionMiddleware {
	return &SessionMiddleware{sessionSvc: sessionSvc}
}

// RequireSession validates the session JWT from the Authorization header
// or, for WebSocket upgrades, the token query param.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"success":false,"error":"missing session token"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.sessionSvc.Verify(token)
		if err != nil {
			http.Error(w, `{"success":false,"error":"invalid or expired session token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
		ctx = context.WithValue(ctx, ProfileIDKey, claims.ProfileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session id from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetProfileID extracts the bound profile id from context, if any
func GetProfileID(ctx context.Context) string {
	if v := ctx.Value(ProfileIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
