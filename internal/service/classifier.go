package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"opencivics/internal/config"
	"opencivics/internal/model"
	"opencivics/internal/quiz"
)

// ClassifierService turns a full set of quiz responses into an archetype
// analysis. The algorithmic score always runs first; when Gemini is
// configured the score is handed to the model for validation and
// enrichment, and the model's answer is checked before it is trusted.
type ClassifierService struct {
	gemini *GeminiClient
}

func NewClassifierService(gemini *GeminiClient) *ClassifierService {
	return &ClassifierService{gemini: gemini}
}

// Classify analyzes quiz responses. Upstream failures and malformed
// model output are returned to the caller rather than papered over with
// a guessed archetype; use AlgorithmicAnalysis when a fallback is wanted.
func (s *ClassifierService) Classify(ctx context.Context, responses []*model.Response) (*model.ArchetypeAnalysis, error) {
	if len(responses) == 0 {
		return nil, model.ErrNoResponses
	}

	flat := flattenResponses(responses)
	scores := quiz.Score(flat)
	classification := quiz.PrimaryFrom(scores)
	answers := quiz.AnswersByID(flat)

	if !s.gemini.IsEnabled() {
		log.Printf("classifier: gemini disabled, using algorithmic analysis")
		return algorithmicAnalysis(classification, scores, answers), nil
	}

	prompt := buildAnalysisPrompt(responses, scores, classification)
	text, err := s.gemini.Generate(ctx, s.gemini.Models().Analysis, config.AnalysisParams, prompt)
	if err != nil {
		return nil, fmt.Errorf("archetype analysis: %w", err)
	}

	var analysis model.ArchetypeAnalysis
	if err := ParseGeminiJSON(text, &analysis); err != nil {
		return nil, err
	}

	if !analysis.ValidatedArchetype.IsValid() {
		log.Printf("classifier: gemini returned unknown archetype %q, keeping algorithmic primary %s",
			analysis.ValidatedArchetype, classification.Primary)
		analysis.ValidatedArchetype = classification.Primary
		analysis.Confidence = classification.Confidence
	}
	if analysis.ArchetypeBreakdown == nil {
		analysis.ArchetypeBreakdown = scores
	}
	fillAnalysisDefaults(&analysis, answers)

	return &analysis, nil
}

// AlgorithmicAnalysis builds an analysis from the scoring engine alone,
// with no model in the loop. The completion pipeline uses it when Gemini
// is unreachable.
func (s *ClassifierService) AlgorithmicAnalysis(responses []*model.Response) *model.ArchetypeAnalysis {
	flat := flattenResponses(responses)
	scores := quiz.Score(flat)
	classification := quiz.PrimaryFrom(scores)
	return algorithmicAnalysis(classification, scores, quiz.AnswersByID(flat))
}

func flattenResponses(responses []*model.Response) []model.Response {
	flat := make([]model.Response, 0, len(responses))
	for _, r := range responses {
		if r != nil {
			flat = append(flat, *r)
		}
	}
	return flat
}

func algorithmicAnalysis(c quiz.Classification, scores model.ArchetypeScores, answers map[string]any) *model.ArchetypeAnalysis {
	analysis := &model.ArchetypeAnalysis{
		ValidatedArchetype: c.Primary,
		Confidence:         c.Confidence,
		SecondaryArchetype: c.Secondary,
		Reasoning:          fmt.Sprintf("Weighted quiz responses align most strongly with the %s archetype.", c.Primary),
		ArchetypeBreakdown: scores,
	}
	fillAnalysisDefaults(analysis, answers)
	return analysis
}

func fillAnalysisDefaults(analysis *model.ArchetypeAnalysis, answers map[string]any) {
	if analysis.ConsortiumRole == "" {
		analysis.ConsortiumRole = SuggestConsortiumRole(analysis.ValidatedArchetype, answers)
	}
	if len(analysis.KeyCharacteristics) == 0 {
		analysis.KeyCharacteristics = ExtractKeyCharacteristics(answers)
	}
	if len(analysis.EngagementStrengths) == 0 {
		analysis.EngagementStrengths = ArchetypeStrengths[analysis.ValidatedArchetype]
	}
	if len(analysis.RecommendedSteps) == 0 {
		analysis.RecommendedSteps = RecommendedNextSteps[analysis.ValidatedArchetype]
	}
}

func buildAnalysisPrompt(responses []*model.Response, scores model.ArchetypeScores, c quiz.Classification) string {
	var b strings.Builder

	b.WriteString("You are analyzing onboarding quiz responses for a civic innovation network.\n")
	b.WriteString("The four archetypes are:\n")
	b.WriteString("- allies: supporters who amplify and connect\n")
	b.WriteString("- innovators: builders creating tools and solutions\n")
	b.WriteString("- organizers: mobilizers coordinating people and initiatives\n")
	b.WriteString("- patrons: funders directing resources to civic work\n\n")

	b.WriteString("QUIZ RESPONSES:\n")
	for _, r := range responses {
		b.WriteString(fmt.Sprintf("Q: %s\nA: %s\n\n", r.QuestionText, r.StringValue()))
	}

	b.WriteString("ALGORITHMIC SCORES (weighted, normalized):\n")
	for _, a := range model.Archetypes {
		b.WriteString(fmt.Sprintf("- %s: %.3f\n", a, scores[a]))
	}
	b.WriteString(fmt.Sprintf("\nThe algorithm's primary is %q with confidence %.2f.\n\n", c.Primary, c.Confidence))

	b.WriteString("Validate or correct the primary archetype based on the full responses. ")
	b.WriteString("Respond with JSON only, in this exact shape:\n")
	b.WriteString(`{
  "validated_archetype": "allies|innovators|organizers|patrons",
  "confidence": 0.0,
  "secondary_archetype": "",
  "reasoning": "",
  "archetype_breakdown": {"allies": 0.0, "innovators": 0.0, "organizers": 0.0, "patrons": 0.0},
  "consortium_role_suggestion": "ally|citizen|contributor|patron",
  "key_characteristics": [],
  "engagement_strengths": [],
  "recommended_steps": []
}`)

	return b.String()
}
