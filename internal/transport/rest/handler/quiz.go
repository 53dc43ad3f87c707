package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"opencivics/internal/model"
	"opencivics/internal/quiz"
	"opencivics/internal/service"
)

// QuizHandler handles quiz lifecycle endpoints
type QuizHandler struct {
	quizSvc       *service.QuizService
	completionSvc *service.CompletionService
}

func NewQuizHandler(quizSvc *service.QuizService, completionSvc *service.CompletionService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc, completionSvc: completionSvc}
}

// Questions handles GET /v1/quiz/questions
func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quiz.Questions)
}

// StartQuizRequest is the request body for starting a quiz
type StartQuizRequest struct {
	Ephemeral bool   `json:"ephemeral"`
	Name      string `json:"name,omitempty"`
}

// Start handles POST /v1/quiz/start
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.quizSvc.StartQuiz(r.Context(), req.Ephemeral, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

// SaveResponseRequest is the request body for answering a question
type SaveResponseRequest struct {
	QuestionID       string `json:"questionId"`
	Value            any    `json:"value"`
	RawText          string `json:"rawText,omitempty"`
	TimeSpentSeconds int    `json:"timeSpentSeconds,omitempty"`
}

// SaveResponse handles POST /v1/quiz/{subjectId}/responses
func (h *QuizHandler) SaveResponse(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["subjectId"]

	var req SaveResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.quizSvc.SaveResponse(r.Context(), subjectID, req.QuestionID, req.Value, req.RawText, req.TimeSpentSeconds)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// Responses handles GET /v1/quiz/{subjectId}/responses
func (h *QuizHandler) Responses(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["subjectId"]

	responses, err := h.quizSvc.Responses(r.Context(), subjectID)
	if err != nil {
		respondError(w, err)
		return
	}
	if responses == nil {
		responses = []*model.Response{}
	}

	writeJSON(w, http.StatusOK, responses)
}

// Next handles GET /v1/quiz/{subjectId}/next
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["subjectId"]

	question, err := h.quizSvc.NextQuestion(r.Context(), subjectID)
	if err != nil {
		respondError(w, err)
		return
	}

	// A nil question means the graph is exhausted.
	writeJSON(w, http.StatusOK, map[string]any{
		"question": question,
		"complete": question == nil,
	})
}

// Restart handles DELETE /v1/quiz/{subjectId}/responses
func (h *QuizHandler) Restart(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["subjectId"]

	if err := h.quizSvc.Restart(r.Context(), subjectID); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "restarted"})
}

// CompleteRequest optionally carries the full response set inline
type CompleteRequest struct {
	Responses []*model.Response `json:"responses,omitempty"`
}

// Complete handles POST /v1/quiz/{subjectId}/complete
func (h *QuizHandler) Complete(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["subjectId"]

	var req CompleteRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.completionSvc.Complete(r.Context(), subjectID, req.Responses)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
