package service

import (
	"context"
	"fmt"
	"strings"

	"opencivics/internal/config"
	"opencivics/internal/model"
)

// SummaryService produces the short welcome summary shown at the end of
// onboarding.
type SummaryService struct {
	gemini *GeminiClient
}

func NewSummaryService(gemini *GeminiClient) *SummaryService {
	return &SummaryService{gemini: gemini}
}

var archetypeDescriptions = map[model.Archetype]string{
	model.ArchetypeAllies:     "a supporter who amplifies civic work and connects people to opportunities",
	model.ArchetypeInnovators: "a builder who creates tools and solutions for civic challenges",
	model.ArchetypeOrganizers: "a mobilizer who brings people together around shared goals",
	model.ArchetypePatrons:    "a supporter who directs resources toward civic innovation",
}

// Generate writes a personalized onboarding summary. It respects ctx, so
// the completion pipeline can bound how long summary generation may take.
func (s *SummaryService) Generate(ctx context.Context, profile *model.Profile, analysis *model.ArchetypeAnalysis, resources []model.ResourceRecommendation) (string, error) {
	if !s.gemini.IsEnabled() {
		return templatedSummary(profile, analysis), nil
	}

	text, err := s.gemini.Generate(ctx, s.gemini.Models().Summary, config.SummaryParams, buildSummaryPrompt(profile, analysis, resources))
	if err != nil {
		return "", fmt.Errorf("summary generation: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func buildSummaryPrompt(profile *model.Profile, analysis *model.ArchetypeAnalysis, resources []model.ResourceRecommendation) string {
	var b strings.Builder

	name := profile.Name
	if name == "" {
		name = "this member"
	}

	b.WriteString("Write a warm, concise onboarding summary (2-3 short paragraphs) for a new member of a civic innovation network.\n\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", name))
	b.WriteString(fmt.Sprintf("Archetype: %s (%s)\n", analysis.ValidatedArchetype, archetypeDescriptions[analysis.ValidatedArchetype]))
	if analysis.SecondaryArchetype != "" {
		b.WriteString(fmt.Sprintf("Secondary archetype: %s\n", analysis.SecondaryArchetype))
	}
	b.WriteString(fmt.Sprintf("Suggested consortium role: %s\n", analysis.ConsortiumRole))
	if len(analysis.KeyCharacteristics) > 0 {
		b.WriteString(fmt.Sprintf("Key characteristics: %s\n", strings.Join(analysis.KeyCharacteristics, "; ")))
	}

	if len(resources) > 0 {
		b.WriteString("\nTop recommended resources:\n")
		limit := len(resources)
		if limit > 3 {
			limit = 3
		}
		for _, rec := range resources[:limit] {
			b.WriteString(fmt.Sprintf("- %s: %s\n", rec.Title, rec.Description))
		}
	}

	b.WriteString("\nWrite in second person, mention their archetype and what it means, and end with an encouraging note about getting started. Plain text only, no markdown headers.")
	return b.String()
}

func templatedSummary(profile *model.Profile, analysis *model.ArchetypeAnalysis) string {
	name := profile.Name
	if name == "" {
		name = "Welcome"
	}
	return fmt.Sprintf(
		"%s, your responses identify you as %s. As part of the network you would join as a %s. Explore your recommended resources to get started.",
		name, archetypeDescriptions[analysis.ValidatedArchetype], analysis.ConsortiumRole)
}
