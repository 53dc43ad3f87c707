package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"opencivics/internal/cache"
	"opencivics/internal/config"
	"opencivics/internal/model"
)

// ResourceService finds resources matching a member's interests. It
// queries the Notion resource database when configured and falls back to
// a curated built-in set on any upstream problem, so resource discovery
// never fails the caller.
type ResourceService struct {
	config *config.NotionConfig
	client *http.Client
	cache  cache.ResourceCache
}

func NewResourceService(cfg *config.NotionConfig, resourceCache cache.ResourceCache) *ResourceService {
	return &ResourceService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		cache: resourceCache,
	}
}

// Search returns resources matching the filters. It never returns an
// error: upstream failures degrade to the built-in resource set.
func (s *ResourceService) Search(ctx context.Context, filters model.SearchFilters) []model.Resource {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, filters); err == nil && ok {
			return cached
		}
	}

	var resources []model.Resource
	if s.config.IsEnabled() {
		found, err := s.queryNotion(ctx, filters)
		if err != nil {
			log.Printf("resources: notion query failed, using fallback: %v", err)
			resources = fallbackResources(filters)
		} else {
			resources = found
		}
	} else {
		resources = fallbackResources(filters)
	}

	if filters.Limit > 0 && len(resources) > filters.Limit {
		resources = resources[:filters.Limit]
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, filters, resources); err != nil {
			log.Printf("resources: cache set failed: %v", err)
		}
	}

	return resources
}

func (s *ResourceService) queryNotion(ctx context.Context, filters model.SearchFilters) ([]model.Resource, error) {
	body := map[string]interface{}{
		"page_size": 100,
	}
	if conditions := notionFilter(filters); len(conditions) > 0 {
		body["filter"] = map[string]interface{}{"or": conditions}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/databases/%s/query", s.config.BaseURL, s.config.DatabaseID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Notion-Version", "2022-06-28")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notion returned %d: %.200s", resp.StatusCode, raw)
	}

	var result struct {
		Results []notionPage `json:"results"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}

	resources := make([]model.Resource, 0, len(result.Results))
	for _, page := range result.Results {
		resources = append(resources, page.toResource())
	}
	return resources, nil
}

func notionFilter(filters model.SearchFilters) []map[string]interface{} {
	var conditions []map[string]interface{}
	for _, sector := range filters.CivicSectors {
		conditions = append(conditions, multiSelectContains("CivicSectors", sector))
	}
	for _, domain := range filters.InnovationDomains {
		conditions = append(conditions, multiSelectContains("Domains", domain))
	}
	for _, archetype := range filters.Archetypes {
		conditions = append(conditions, multiSelectContains("Archetypes", string(archetype)))
	}
	return conditions
}

func multiSelectContains(property, value string) map[string]interface{} {
	return map[string]interface{}{
		"property":     property,
		"multi_select": map[string]string{"contains": value},
	}
}

type notionPage struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Properties map[string]struct {
		Title []struct {
			PlainText string `json:"plain_text"`
		} `json:"title"`
		RichText []struct {
			PlainText string `json:"plain_text"`
		} `json:"rich_text"`
		Select *struct {
			Name string `json:"name"`
		} `json:"select"`
		MultiSelect []struct {
			Name string `json:"name"`
		} `json:"multi_select"`
		URL string `json:"url"`
	} `json:"properties"`
}

func (p notionPage) toResource() model.Resource {
	resource := model.Resource{ID: p.ID, URL: p.URL}
	for name, prop := range p.Properties {
		switch name {
		case "Name", "Title":
			if len(prop.Title) > 0 {
				resource.Title = prop.Title[0].PlainText
			}
		case "Description":
			if len(prop.RichText) > 0 {
				resource.Description = prop.RichText[0].PlainText
			}
		case "Category":
			if prop.Select != nil {
				resource.Category = prop.Select.Name
			}
		case "URL", "Link":
			if prop.URL != "" {
				resource.URL = prop.URL
			}
		case "CivicSectors":
			resource.CivicSectors = multiSelectNames(prop.MultiSelect)
		case "Domains":
			resource.Domains = multiSelectNames(prop.MultiSelect)
		case "Archetypes":
			for _, item := range prop.MultiSelect {
				resource.Archetypes = append(resource.Archetypes, model.Archetype(item.Name))
			}
		case "Tags":
			resource.Tags = multiSelectNames(prop.MultiSelect)
		}
	}
	return resource
}

func multiSelectNames(items []struct {
	Name string `json:"name"`
}) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

// builtinResources is the curated set served when Notion is not
// configured or unreachable.
var builtinResources = []model.Resource{
	{
		ID:           "builtin-1",
		Title:        "Civic Tech Field Guide",
		Description:  "A crowdsourced directory of civic technology projects, tools, and organizations worldwide.",
		URL:          "https://civictech.guide",
		Category:     "Directory",
		CivicSectors: []string{"governance", "education"},
		Domains:      []string{"technology", "policy"},
		Archetypes:   []model.Archetype{model.ArchetypeInnovators, model.ArchetypeAllies},
		Tags:         []string{"civic-tech", "directory"},
	},
	{
		ID:           "builtin-2",
		Title:        "Community Organizing Handbook",
		Description:  "Practical methods for mobilizing neighbors, running meetings, and sustaining local campaigns.",
		URL:          "https://commonslibrary.org/organising",
		Category:     "Guide",
		CivicSectors: []string{"community", "housing"},
		Domains:      []string{"organizing"},
		Archetypes:   []model.Archetype{model.ArchetypeOrganizers},
		Tags:         []string{"organizing", "facilitation"},
	},
	{
		ID:           "builtin-3",
		Title:        "Participatory Budgeting Starter Kit",
		Description:  "How communities decide together how public money is spent, with templates and case studies.",
		URL:          "https://participatorybudgeting.org/resources",
		Category:     "Toolkit",
		CivicSectors: []string{"governance", "economy"},
		Domains:      []string{"policy", "finance"},
		Archetypes:   []model.Archetype{model.ArchetypeOrganizers, model.ArchetypePatrons},
		Tags:         []string{"budgeting", "participation"},
	},
	{
		ID:           "builtin-4",
		Title:        "Open Source Civic Infrastructure",
		Description:  "A survey of open source projects powering elections, public records, and digital services.",
		URL:          "https://codeforall.org/projects",
		Category:     "Directory",
		CivicSectors: []string{"governance", "technology"},
		Domains:      []string{"technology"},
		Archetypes:   []model.Archetype{model.ArchetypeInnovators},
		Tags:         []string{"open-source", "infrastructure"},
	},
	{
		ID:           "builtin-5",
		Title:        "Funding Civic Innovation",
		Description:  "An overview of grantmaking models, matched funding, and impact measurement for civic work.",
		URL:          "https://candid.org/civic-innovation",
		Category:     "Report",
		CivicSectors: []string{"economy"},
		Domains:      []string{"finance"},
		Archetypes:   []model.Archetype{model.ArchetypePatrons, model.ArchetypeAllies},
		Tags:         []string{"funding", "philanthropy"},
	},
}

func fallbackResources(filters model.SearchFilters) []model.Resource {
	matched := make([]model.Resource, 0, len(builtinResources))
	for _, r := range builtinResources {
		if matchesFilters(r, filters) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matchesFilters(r model.Resource, filters model.SearchFilters) bool {
	if len(filters.Archetypes) > 0 && !archetypesIntersect(r.Archetypes, filters.Archetypes) {
		return false
	}
	if len(filters.CivicSectors) > 0 && !stringsIntersect(r.CivicSectors, filters.CivicSectors) {
		return false
	}
	if len(filters.InnovationDomains) > 0 && !stringsIntersect(r.Domains, filters.InnovationDomains) {
		return false
	}
	return true
}

func stringsIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func archetypesIntersect(a, b []model.Archetype) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
