package handler

import (
	"net/http"
	"strconv"
	"strings"

	"opencivics/internal/model"
	"opencivics/internal/service"
)

// ResourceHandler handles resource discovery endpoints
type ResourceHandler struct {
	resourceSvc *service.ResourceService
}

func NewResourceHandler(resourceSvc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceSvc: resourceSvc}
}

// Search handles GET /v1/resources
func (h *ResourceHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters := model.SearchFilters{
		CivicSectors:      splitParam(query.Get("sectors")),
		InnovationDomains: splitParam(query.Get("domains")),
		Query:             query.Get("q"),
		Limit:             20,
	}
	for _, a := range splitParam(query.Get("archetypes")) {
		archetype := model.Archetype(a)
		if !archetype.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown archetype "+a)
			return
		}
		filters.Archetypes = append(filters.Archetypes, archetype)
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filters.Limit = limit
	}

	found := h.resourceSvc.Search(r.Context(), filters)
	writeJSON(w, http.StatusOK, found)
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
