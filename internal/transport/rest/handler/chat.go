package handler

import (
	"encoding/json"
	"net/http"

	"opencivics/internal/service"
)

// ChatHandler handles the conversational onboarding endpoint
type ChatHandler struct {
	chatSvc *service.ChatService
}

func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Message handles POST /v1/chat
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req service.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" && req.Action == "" {
		writeError(w, http.StatusBadRequest, "message or action required")
		return
	}

	reply, err := h.chatSvc.Process(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
