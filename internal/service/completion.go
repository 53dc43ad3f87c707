package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"opencivics/internal/cache"
	"opencivics/internal/model"
	"opencivics/internal/quiz"
	"opencivics/internal/repository"
	"opencivics/internal/store"
)

const recommendedResourceLimit = 10

// CompletionResult is everything produced by finishing the quiz.
type CompletionResult struct {
	Profile              *model.Profile                 `json:"profile"`
	Analysis             *model.ArchetypeAnalysis       `json:"analysis"`
	RecommendedResources []model.ResourceRecommendation `json:"recommendedResources"`
	Summary              string                         `json:"summary"`
}

// CompletionService runs the end-of-quiz pipeline: classify, persist the
// archetype, record interests, match resources, and generate the welcome
// summary. For ephemeral subjects every persistence step happens in the
// session store instead of Mongo.
type CompletionService struct {
	store          *store.DualStore
	profiles       repository.ProfileRepository
	interests      repository.InterestsRepository
	classifier     *ClassifierService
	resources      *ResourceService
	summaries      *SummaryService
	profileCache   cache.ProfileCache
	summaryTimeout time.Duration
}

func NewCompletionService(
	dual *store.DualStore,
	profiles repository.ProfileRepository,
	interests repository.InterestsRepository,
	classifier *ClassifierService,
	resources *ResourceService,
	summaries *SummaryService,
	profileCache cache.ProfileCache,
	summaryTimeout time.Duration,
) *CompletionService {
	return &CompletionService{
		store:          dual,
		profiles:       profiles,
		interests:      interests,
		classifier:     classifier,
		resources:      resources,
		summaries:      summaries,
		profileCache:   profileCache,
		summaryTimeout: summaryTimeout,
	}
}

// Complete finishes the quiz for a subject. Inline responses, when
// given, are recorded before the pipeline runs, so a client can submit
// the whole quiz in one call.
func (s *CompletionService) Complete(ctx context.Context, subjectID string, inline []*model.Response) (*CompletionResult, error) {
	for _, r := range inline {
		if err := s.store.SaveResponse(ctx, subjectID, r); err != nil {
			return nil, err
		}
	}

	responses, err := s.store.GetResponses(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, model.ErrNoResponses
	}

	analysis, err := s.classifier.Classify(ctx, responses)
	if err != nil {
		var malformed *model.MalformedResponseError
		if errors.Is(err, model.ErrUpstreamUnavailable) || errors.As(err, &malformed) {
			log.Printf("completion: AI classification failed (%v), using algorithmic analysis", err)
			analysis = s.classifier.AlgorithmicAnalysis(responses)
		} else {
			return nil, err
		}
	}

	answers := quiz.AnswersByID(flattenResponses(responses))

	profile, err := s.persistProfile(ctx, subjectID, analysis)
	if err != nil {
		return nil, err
	}

	memberInterests := interestsFromAnswers(subjectID, answers)
	if err := s.persistInterests(ctx, subjectID, memberInterests); err != nil {
		return nil, err
	}

	recommendations := s.recommendResources(ctx, analysis, memberInterests)

	summaryCtx, cancel := context.WithTimeout(ctx, s.summaryTimeout)
	defer cancel()
	summary, err := s.summaries.Generate(summaryCtx, profile, analysis, recommendations)
	if err != nil {
		if summaryTimedOut(err, summaryCtx) {
			// Everything but the summary succeeded; hand the partial
			// result back so callers can degrade instead of discarding
			// a finished classification.
			partial := &CompletionResult{
				Profile:              profile,
				Analysis:             analysis,
				RecommendedResources: recommendations,
			}
			return partial, fmt.Errorf("%w: %v", model.ErrSummaryTimeout, err)
		}
		return nil, err
	}

	if profile.IsEphemeral() {
		profile.Summary = summary
		s.store.Sessions().SetProfile(subjectID, profile)
	} else {
		profile, err = s.profiles.Update(ctx, subjectID, bson.M{"summary": summary})
		if err != nil {
			return nil, &model.PersistenceError{Backing: "durable", Op: "save summary", Err: err}
		}
		s.invalidateProfile(ctx, subjectID)
	}

	return &CompletionResult{
		Profile:              profile,
		Analysis:             analysis,
		RecommendedResources: recommendations,
		Summary:              summary,
	}, nil
}

// summaryTimedOut reports whether the summary step failed on time rather
// than on substance. The HTTP client's own per-request deadline can fire
// before the summary budget does; either way the caller gets the Timeout
// kind, not a generic upstream failure.
func summaryTimedOut(err error, summaryCtx context.Context) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(summaryCtx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (s *CompletionService) persistProfile(ctx context.Context, subjectID string, analysis *model.ArchetypeAnalysis) (*model.Profile, error) {
	now := time.Now()

	if model.IsEphemeralID(subjectID) {
		profile := s.store.Sessions().Profile(subjectID)
		if profile == nil {
			profile = &model.Profile{ID: subjectID, CreatedAt: now}
		}
		profile.ApplyAnalysis(analysis)
		profile.QuizCompleted = true
		profile.QuizCompletedAt = &now
		profile.UpdatedAt = now
		s.store.Sessions().SetProfile(subjectID, profile)
		return profile, nil
	}

	fields := bson.M{
		"archetype":           analysis.ValidatedArchetype,
		"secondaryArchetype":  analysis.SecondaryArchetype,
		"archetypeConfidence": analysis.Confidence,
		"archetypeBreakdown":  analysis.ArchetypeBreakdown,
		"consortiumRole":      analysis.ConsortiumRole,
		"quizCompleted":       true,
		"quizCompletedAt":     now,
	}
	profile, err := s.profiles.Update(ctx, subjectID, fields)
	if err != nil {
		return nil, &model.PersistenceError{Backing: "durable", Op: "persist archetype", Err: err}
	}
	if profile == nil {
		return nil, model.ErrNotFound
	}
	s.invalidateProfile(ctx, subjectID)
	return profile, nil
}

func (s *CompletionService) persistInterests(ctx context.Context, subjectID string, memberInterests *model.Interests) error {
	if model.IsEphemeralID(subjectID) {
		s.store.Sessions().SetInterests(subjectID, memberInterests)
		return nil
	}
	if err := s.interests.Upsert(ctx, memberInterests); err != nil {
		return &model.PersistenceError{Backing: "durable", Op: "upsert interests", Err: err}
	}
	return nil
}

func (s *CompletionService) recommendResources(ctx context.Context, analysis *model.ArchetypeAnalysis, memberInterests *model.Interests) []model.ResourceRecommendation {
	archetypes := []model.Archetype{analysis.ValidatedArchetype}
	if analysis.SecondaryArchetype != "" {
		archetypes = append(archetypes, analysis.SecondaryArchetype)
	}

	found := s.resources.Search(ctx, model.SearchFilters{
		CivicSectors:      memberInterests.CivicSectors,
		InnovationDomains: memberInterests.InnovationDomains,
		Archetypes:        archetypes,
		Limit:             recommendedResourceLimit,
	})

	topSector := "civic innovation"
	if len(memberInterests.CivicSectors) > 0 {
		topSector = memberInterests.CivicSectors[0]
	}

	recommendations := make([]model.ResourceRecommendation, 0, len(found))
	for i, r := range found {
		recommendations = append(recommendations, model.ResourceRecommendation{
			Resource:             r,
			RelevanceScore:       1.0 - float64(i)*0.05,
			RecommendationReason: fmt.Sprintf("Matches your interest in %s", topSector),
		})
	}
	return recommendations
}

func (s *CompletionService) invalidateProfile(ctx context.Context, id string) {
	if s.profileCache == nil {
		return
	}
	if err := s.profileCache.Invalidate(ctx, id); err != nil {
		log.Printf("completion: profile cache invalidate failed: %v", err)
	}
}

func interestsFromAnswers(profileID string, answers map[string]any) *model.Interests {
	return &model.Interests{
		ID:                "i_" + uuid.NewString()[:8],
		ProfileID:         profileID,
		CivicSectors:      sliceAnswer(answers, "civic_sectors"),
		InnovationDomains: sliceAnswer(answers, "innovation_domains"),
		Skills:            sliceAnswer(answers, "specific_skills"),
		TimeCommitment:    model.TimeCommitment(stringAnswer(answers, "time_commitment")),
	}
}
