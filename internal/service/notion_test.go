package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"opencivics/internal/config"
	"opencivics/internal/model"
)

func disabledNotion() *ResourceService {
	return NewResourceService(&config.NotionConfig{TimeoutMS: 1000}, nil)
}

func TestSearchDisabledServesBuiltinSet(t *testing.T) {
	found := disabledNotion().Search(context.Background(), model.SearchFilters{})
	require.Len(t, found, len(builtinResources))
}

func TestSearchFiltersBuiltinByArchetype(t *testing.T) {
	found := disabledNotion().Search(context.Background(), model.SearchFilters{
		Archetypes: []model.Archetype{model.ArchetypePatrons},
	})

	require.NotEmpty(t, found)
	for _, r := range found {
		require.Contains(t, r.Archetypes, model.ArchetypePatrons)
	}
}

func TestSearchFiltersBuiltinBySector(t *testing.T) {
	found := disabledNotion().Search(context.Background(), model.SearchFilters{
		CivicSectors: []string{"housing"},
	})

	require.NotEmpty(t, found)
	for _, r := range found {
		require.Contains(t, r.CivicSectors, "housing")
	}
}

func TestSearchAppliesLimit(t *testing.T) {
	found := disabledNotion().Search(context.Background(), model.SearchFilters{Limit: 2})
	require.Len(t, found, 2)
}

func TestSearchUpstreamErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewResourceService(&config.NotionConfig{
		APIKey:     "secret",
		BaseURL:    server.URL,
		DatabaseID: "db",
		TimeoutMS:  1000,
	}, nil)

	found := svc.Search(context.Background(), model.SearchFilters{
		Archetypes: []model.Archetype{model.ArchetypeInnovators},
	})
	require.NotEmpty(t, found)
	for _, r := range found {
		require.Contains(t, r.Archetypes, model.ArchetypeInnovators)
	}
}

func TestSearchParsesNotionPages(t *testing.T) {
	page := map[string]any{
		"id":  "page-1",
		"url": "https://notion.so/page-1",
		"properties": map[string]any{
			"Name": map[string]any{
				"title": []map[string]any{{"plain_text": "Civic Data Primer"}},
			},
			"Description": map[string]any{
				"rich_text": []map[string]any{{"plain_text": "Working with open government data."}},
			},
			"Category": map[string]any{
				"select": map[string]any{"name": "Guide"},
			},
			"Archetypes": map[string]any{
				"multi_select": []map[string]any{{"name": "innovators"}},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("Notion-Version"))
		json.NewEncoder(w).Encode(map[string]any{"results": []any{page}})
	}))
	defer server.Close()

	svc := NewResourceService(&config.NotionConfig{
		APIKey:     "secret",
		BaseURL:    server.URL,
		DatabaseID: "db",
		TimeoutMS:  1000,
	}, nil)

	found := svc.Search(context.Background(), model.SearchFilters{})
	require.Len(t, found, 1)
	require.Equal(t, "Civic Data Primer", found[0].Title)
	require.Equal(t, "Working with open government data.", found[0].Description)
	require.Equal(t, "Guide", found[0].Category)
	require.Equal(t, []model.Archetype{model.ArchetypeInnovators}, found[0].Archetypes)
	require.Equal(t, "https://notion.so/page-1", found[0].URL)
}
