package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"opencivics/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 400,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondError maps domain errors onto HTTP statuses so handlers never
// leak raw persistence or upstream failures as 200s.
func respondError(w http.ResponseWriter, err error) {
	var validation *model.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrNoResponses):
		writeError(w, http.StatusConflict, "no quiz responses recorded yet")
	case errors.Is(err, model.ErrSummaryTimeout):
		writeError(w, http.StatusGatewayTimeout, "summary generation timed out")
	case errors.Is(err, model.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "AI service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
