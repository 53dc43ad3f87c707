package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"opencivics/internal/model"
	"opencivics/internal/service"
)

// ProfileHandler handles profile read and engagement endpoints
type ProfileHandler struct {
	quizSvc *service.QuizService
}

func NewProfileHandler(quizSvc *service.QuizService) *ProfileHandler {
	return &ProfileHandler{quizSvc: quizSvc}
}

// Get handles GET /v1/profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	profile, err := h.quizSvc.GetProfile(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Interests handles GET /v1/profiles/{id}/interests
func (h *ProfileHandler) Interests(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	memberInterests, err := h.quizSvc.Interests(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if memberInterests == nil {
		writeError(w, http.StatusNotFound, "no interests recorded")
		return
	}

	writeJSON(w, http.StatusOK, memberInterests)
}

// EngagementRequest is the request body for logging an engagement action
type EngagementRequest struct {
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
}

// RecordEngagement handles POST /v1/profiles/{id}/engagement
func (h *ProfileHandler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req EngagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action required")
		return
	}

	err := h.quizSvc.RecordEngagement(r.Context(), id, model.EngagementAction{
		Action: req.Action,
		Detail: req.Detail,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}
