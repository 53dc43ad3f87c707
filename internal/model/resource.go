package model

// Resource is one knowledge-base document surfaced to a participant
type Resource struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	URL          string      `json:"url,omitempty"`
	Category     string      `json:"category,omitempty"`
	CivicSectors []string    `json:"civicSectors,omitempty"`
	Domains      []string    `json:"domains,omitempty"`
	Archetypes   []Archetype `json:"archetypes,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
}

// ResourceRecommendation is a resource annotated for presentation
type ResourceRecommendation struct {
	Resource
	RelevanceScore       float64 `json:"relevanceScore"`
	RecommendationReason string  `json:"recommendationReason"`
}

// SearchFilters narrows a resource search
type SearchFilters struct {
	CivicSectors      []string    `json:"civicSectors,omitempty"`
	InnovationDomains []string    `json:"innovationDomains,omitempty"`
	Archetypes        []Archetype `json:"archetypes,omitempty"`
	Query             string      `json:"query,omitempty"`
	Limit             int         `json:"limit,omitempty"`
}
