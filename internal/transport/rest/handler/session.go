package handler

import (
	"encoding/json"
	"net/http"

	"opencivics/internal/service"
)

// SessionHandler mints chat session tokens
type SessionHandler struct {
	sessionSvc *service.SessionService
}

func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// OpenSessionRequest optionally binds the session to an existing profile
type OpenSessionRequest struct {
	ProfileID string `json:"profileId,omitempty"`
}

// Open handles POST /v1/sessions
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if r.Body != nil {
		// An empty body is fine; sessions start unbound.
		json.NewDecoder(r.Body).Decode(&req)
	}

	token, err := h.sessionSvc.Open(req.ProfileID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, token)
}
