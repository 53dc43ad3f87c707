package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"opencivics/internal/config"
	"opencivics/internal/model"
	"opencivics/internal/quiz"
	"opencivics/internal/store"
)

// In-memory repository fakes. Update applies only the fields the
// completion pipeline writes.

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	updates  int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, id string, fields bson.M) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	f.updates++
	for key, value := range fields {
		switch key {
		case "name":
			p.Name = value.(string)
		case "archetype":
			p.Archetype = value.(model.Archetype)
		case "secondaryArchetype":
			p.SecondaryArchetype = value.(model.Archetype)
		case "archetypeConfidence":
			p.ArchetypeConfidence = value.(float64)
		case "archetypeBreakdown":
			p.ArchetypeBreakdown = value.(model.ArchetypeScores)
		case "consortiumRole":
			p.ConsortiumRole = value.(model.ConsortiumRole)
		case "quizCompleted":
			p.QuizCompleted = value.(bool)
		case "quizCompletedAt":
			at := value.(time.Time)
			p.QuizCompletedAt = &at
		case "summary":
			p.Summary = value.(string)
		}
	}
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) AppendEngagement(ctx context.Context, id string, action model.EngagementAction) error {
	if p, ok := f.profiles[id]; ok {
		p.EngagementLog = append(p.EngagementLog, action)
	}
	return nil
}

type fakeInterestsRepo struct {
	byProfile map[string]*model.Interests
	upserts   int
}

func newFakeInterestsRepo() *fakeInterestsRepo {
	return &fakeInterestsRepo{byProfile: make(map[string]*model.Interests)}
}

func (f *fakeInterestsRepo) Upsert(ctx context.Context, interests *model.Interests) error {
	f.upserts++
	if existing, ok := f.byProfile[interests.ProfileID]; ok {
		interests.ID = existing.ID
	}
	f.byProfile[interests.ProfileID] = interests
	return nil
}

func (f *fakeInterestsRepo) GetByProfile(ctx context.Context, profileID string) (*model.Interests, error) {
	return f.byProfile[profileID], nil
}

type fakeResponseRepo struct {
	byProfile map[string]map[string]*model.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{byProfile: make(map[string]map[string]*model.Response)}
}

func (f *fakeResponseRepo) Upsert(ctx context.Context, response *model.Response) error {
	if f.byProfile[response.ProfileID] == nil {
		f.byProfile[response.ProfileID] = make(map[string]*model.Response)
	}
	f.byProfile[response.ProfileID][response.QuestionID] = response
	return nil
}

func (f *fakeResponseRepo) GetByProfile(ctx context.Context, profileID string) ([]*model.Response, error) {
	var out []*model.Response
	for _, r := range f.byProfile[profileID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionOrder < out[j].QuestionOrder })
	return out, nil
}

func (f *fakeResponseRepo) DeleteByProfile(ctx context.Context, profileID string) error {
	delete(f.byProfile, profileID)
	return nil
}

type completionFixture struct {
	completion *CompletionService
	store      *store.DualStore
	profiles   *fakeProfileRepo
	interests  *fakeInterestsRepo
	responses  *fakeResponseRepo
}

func newCompletionFixture(t *testing.T, aiCfg *config.AIConfig, summaryTimeout time.Duration) *completionFixture {
	t.Helper()

	profiles := newFakeProfileRepo()
	interests := newFakeInterestsRepo()
	responses := newFakeResponseRepo()
	dual := store.NewDualStore(store.NewSessionStore(64, time.Hour), responses)

	gemini := NewGeminiClient(aiCfg)
	classifier := NewClassifierService(gemini)
	resources := NewResourceService(&config.NotionConfig{TimeoutMS: 1000}, nil)
	summaries := NewSummaryService(gemini)

	return &completionFixture{
		completion: NewCompletionService(dual, profiles, interests, classifier, resources, summaries, nil, summaryTimeout),
		store:      dual,
		profiles:   profiles,
		interests:  interests,
		responses:  responses,
	}
}

func seedQuizResponses(t *testing.T, dual *store.DualStore, subjectID string) {
	t.Helper()
	ctx := context.Background()

	answers := []struct {
		questionID string
		value      any
	}{
		{"resource_contribution_primary", "time_learning"},
		{"participation_mode", "learning"},
		{"engagement_stage", "new_curious"},
		{"civic_sectors", []string{"governance", "education"}},
		{"time_commitment", "regular"},
	}
	for _, a := range answers {
		q := quiz.QuestionByID(a.questionID)
		require.NotNil(t, q)
		require.NoError(t, dual.SaveResponse(ctx, subjectID, &model.Response{
			ID:            "r_" + a.questionID,
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			QuestionType:  q.Type,
			Value:         a.value,
			QuestionOrder: quiz.IndexOf(q.ID),
		}))
	}
}

func TestCompleteEphemeralNeverTouchesDurableTier(t *testing.T) {
	fx := newCompletionFixture(t, &config.AIConfig{}, 30*time.Second)
	subjectID := "ephemeral_e2e1"
	seedQuizResponses(t, fx.store, subjectID)

	result, err := fx.completion.Complete(context.Background(), subjectID, nil)
	require.NoError(t, err)

	require.Equal(t, model.ArchetypeAllies, result.Profile.Archetype)
	require.True(t, result.Profile.QuizCompleted)
	require.NotNil(t, result.Profile.QuizCompletedAt)
	require.NotEmpty(t, result.Summary)

	// The durable tier saw nothing.
	require.Empty(t, fx.profiles.profiles)
	require.Zero(t, fx.interests.upserts)
	require.Empty(t, fx.responses.byProfile)

	// Interests live in the session instead.
	sessionInterests := fx.store.Sessions().Interests(subjectID)
	require.NotNil(t, sessionInterests)
	require.Equal(t, []string{"governance", "education"}, sessionInterests.CivicSectors)
	require.Equal(t, model.CommitmentRegular, sessionInterests.TimeCommitment)
}

func TestCompleteDurablePersistsArchetypeAndInterests(t *testing.T) {
	fx := newCompletionFixture(t, &config.AIConfig{}, 30*time.Second)
	subjectID := "p_e2e2"
	fx.profiles.profiles[subjectID] = &model.Profile{ID: subjectID, Name: "Ada"}
	seedQuizResponses(t, fx.store, subjectID)

	result, err := fx.completion.Complete(context.Background(), subjectID, nil)
	require.NoError(t, err)

	stored := fx.profiles.profiles[subjectID]
	require.Equal(t, model.ArchetypeAllies, stored.Archetype)
	require.Equal(t, model.RoleCitizen, stored.ConsortiumRole)
	require.True(t, stored.QuizCompleted)
	require.Equal(t, result.Summary, stored.Summary)

	require.Equal(t, 1, fx.interests.upserts)
	require.Equal(t, []string{"governance", "education"}, fx.interests.byProfile[subjectID].CivicSectors)
}

func TestCompleteTwiceUpsertsInterestsWithoutDuplicates(t *testing.T) {
	fx := newCompletionFixture(t, &config.AIConfig{}, 30*time.Second)
	subjectID := "p_e2e3"
	fx.profiles.profiles[subjectID] = &model.Profile{ID: subjectID}
	seedQuizResponses(t, fx.store, subjectID)

	_, err := fx.completion.Complete(context.Background(), subjectID, nil)
	require.NoError(t, err)
	firstID := fx.interests.byProfile[subjectID].ID

	_, err = fx.completion.Complete(context.Background(), subjectID, nil)
	require.NoError(t, err)

	require.Len(t, fx.interests.byProfile, 1)
	require.Equal(t, firstID, fx.interests.byProfile[subjectID].ID)
}

func TestCompleteWithoutResponses(t *testing.T) {
	fx := newCompletionFixture(t, &config.AIConfig{}, 30*time.Second)
	_, err := fx.completion.Complete(context.Background(), "ephemeral_empty", nil)
	require.ErrorIs(t, err, model.ErrNoResponses)
}

func TestCompleteRecommendationRelevanceDescends(t *testing.T) {
	fx := newCompletionFixture(t, &config.AIConfig{}, 30*time.Second)
	subjectID := "ephemeral_e2e4"
	seedQuizResponses(t, fx.store, subjectID)

	result, err := fx.completion.Complete(context.Background(), subjectID, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.RecommendedResources)

	for i, rec := range result.RecommendedResources {
		require.InDelta(t, 1.0-float64(i)*0.05, rec.RelevanceScore, 0.001)
		require.Equal(t, "Matches your interest in governance", rec.RecommendationReason)
	}
}

func TestCompleteInlineResponsesAreRecordedFirst(t *testing.T) {
	fx := newCompletionFixture(t, &config.AIConfig{}, 30*time.Second)
	subjectID := "ephemeral_e2e5"

	q := quiz.QuestionByID("participation_mode")
	inline := []*model.Response{{
		ID:           "r_inline",
		QuestionID:   q.ID,
		QuestionText: q.Text,
		QuestionType: q.Type,
		Value:        "building",
	}}

	result, err := fx.completion.Complete(context.Background(), subjectID, inline)
	require.NoError(t, err)
	require.Equal(t, model.ArchetypeInnovators, result.Profile.Archetype)
}

func TestCompleteSummaryTimeoutReturnsPartialResult(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		// The classifier call answers instantly; only the summary stalls.
		prompt, _ := json.Marshal(body)
		if prompt != nil && containsAny(string(prompt), "onboarding summary") {
			time.Sleep(300 * time.Millisecond)
		}
		json.NewEncoder(w).Encode(geminiReply(`{"validated_archetype": "allies", "confidence": 0.9, "reasoning": "r"}`))
	}))
	defer slow.Close()

	fx := newCompletionFixture(t, geminiTestConfig(slow.URL), 50*time.Millisecond)
	subjectID := "ephemeral_e2e6"
	seedQuizResponses(t, fx.store, subjectID)

	result, err := fx.completion.Complete(context.Background(), subjectID, nil)
	require.ErrorIs(t, err, model.ErrSummaryTimeout)
	require.NotNil(t, result)
	require.Equal(t, model.ArchetypeAllies, result.Analysis.ValidatedArchetype)
	require.Empty(t, result.Summary)
}

func TestCompleteStalledSummaryIsTimeoutWhenClientGivesUpFirst(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		prompt, _ := json.Marshal(body)
		if prompt != nil && containsAny(string(prompt), "onboarding summary") {
			time.Sleep(600 * time.Millisecond)
		}
		json.NewEncoder(w).Encode(geminiReply(`{"validated_archetype": "allies", "confidence": 0.9, "reasoning": "r"}`))
	}))
	defer slow.Close()

	// The HTTP client's per-request deadline is shorter than the summary
	// budget, mirroring the production defaults (10s client, 30s budget).
	cfg := geminiTestConfig(slow.URL)
	cfg.TimeoutMS = 100
	fx := newCompletionFixture(t, cfg, 5*time.Second)
	subjectID := "ephemeral_e2e7"
	seedQuizResponses(t, fx.store, subjectID)

	result, err := fx.completion.Complete(context.Background(), subjectID, nil)
	require.ErrorIs(t, err, model.ErrSummaryTimeout)
	require.NotNil(t, result)
	require.Equal(t, model.ArchetypeAllies, result.Analysis.ValidatedArchetype)
	require.Empty(t, result.Summary)

	// The classification persisted before the stall stays intact.
	stored := fx.store.Sessions().Profile(subjectID)
	require.NotNil(t, stored)
	require.True(t, stored.QuizCompleted)
	require.Equal(t, model.ArchetypeAllies, stored.Archetype)
}
