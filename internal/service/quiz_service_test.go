package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"opencivics/internal/model"
	"opencivics/internal/store"
)

func newQuizFixture(t *testing.T) (*QuizService, *fakeProfileRepo, *store.DualStore) {
	t.Helper()
	profiles := newFakeProfileRepo()
	dual := store.NewDualStore(store.NewSessionStore(64, time.Hour), newFakeResponseRepo())
	return NewQuizService(dual, profiles, newFakeInterestsRepo(), nil), profiles, dual
}

func TestStartQuizEphemeral(t *testing.T) {
	svc, profiles, dual := newQuizFixture(t)

	profile, err := svc.StartQuiz(context.Background(), true, "Ada")
	require.NoError(t, err)

	require.True(t, profile.IsEphemeral())
	require.Equal(t, "Ada", profile.Name)
	require.Empty(t, profiles.profiles)
	require.NotNil(t, dual.Sessions().Profile(profile.ID))
}

func TestStartQuizDurable(t *testing.T) {
	svc, profiles, _ := newQuizFixture(t)

	profile, err := svc.StartQuiz(context.Background(), false, "Ada")
	require.NoError(t, err)

	require.False(t, profile.IsEphemeral())
	require.Contains(t, profiles.profiles, profile.ID)
}

func TestSaveResponseUnknownQuestion(t *testing.T) {
	svc, _, _ := newQuizFixture(t)

	_, err := svc.SaveResponse(context.Background(), "ephemeral_q", "favorite_color", "blue", "blue", 0)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "questionId", validation.Field)
}

func TestSaveResponseRejectsUnknownOption(t *testing.T) {
	svc, _, _ := newQuizFixture(t)

	_, err := svc.SaveResponse(context.Background(), "ephemeral_q", "participation_mode", "skydiving", "", 0)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestSaveResponseEnforcesSelectionBounds(t *testing.T) {
	svc, _, _ := newQuizFixture(t)

	// civic_sectors requires between 1 and 5 selections.
	_, err := svc.SaveResponse(context.Background(), "ephemeral_q", "civic_sectors",
		[]string{"governance", "education", "justice", "health", "economy", "culture"}, "", 0)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Reason, "at most 5")
}

func TestSaveResponseEnrichesFromGraph(t *testing.T) {
	svc, _, _ := newQuizFixture(t)

	response, err := svc.SaveResponse(context.Background(), "ephemeral_q", "participation_mode", "building", "", 12)
	require.NoError(t, err)

	require.Equal(t, model.QuestionSingleSelect, response.QuestionType)
	require.NotEmpty(t, response.QuestionText)
	require.Equal(t, 12, response.TimeSpentSeconds)
	require.NotZero(t, response.QuestionOrder)
}

func TestNextQuestionSkipsAnsweredAndHidden(t *testing.T) {
	svc, _, _ := newQuizFixture(t)
	ctx := context.Background()
	subjectID := "ephemeral_next"

	next, err := svc.NextQuestion(ctx, subjectID)
	require.NoError(t, err)
	require.Equal(t, "intro_welcome", next.ID)

	_, err = svc.SaveResponse(ctx, subjectID, "intro_welcome", "Ada", "Ada", 0)
	require.NoError(t, err)
	_, err = svc.SaveResponse(ctx, subjectID, "intro_motivation", "curious", "curious", 0)
	require.NoError(t, err)

	// Answering the primary-contribution question with a single resource
	// keeps the multi-resource follow-up hidden.
	_, err = svc.SaveResponse(ctx, subjectID, "resource_contribution_primary", "time_learning", "", 0)
	require.NoError(t, err)

	next, err = svc.NextQuestion(ctx, subjectID)
	require.NoError(t, err)
	require.Equal(t, "participation_mode", next.ID)
}

func TestNextQuestionShowsConditionalFollowUp(t *testing.T) {
	svc, _, _ := newQuizFixture(t)
	ctx := context.Background()
	subjectID := "ephemeral_hybrid"

	_, err := svc.SaveResponse(ctx, subjectID, "intro_welcome", "Ada", "Ada", 0)
	require.NoError(t, err)
	_, err = svc.SaveResponse(ctx, subjectID, "intro_motivation", "curious", "curious", 0)
	require.NoError(t, err)
	_, err = svc.SaveResponse(ctx, subjectID, "resource_contribution_primary", "hybrid_multiple", "", 0)
	require.NoError(t, err)

	next, err := svc.NextQuestion(ctx, subjectID)
	require.NoError(t, err)
	require.Equal(t, "resource_contribution_multiple", next.ID)
}

func TestRestartClearsResponses(t *testing.T) {
	svc, _, _ := newQuizFixture(t)
	ctx := context.Background()
	subjectID := "ephemeral_restart"

	_, err := svc.SaveResponse(ctx, subjectID, "participation_mode", "building", "", 0)
	require.NoError(t, err)
	require.NoError(t, svc.Restart(ctx, subjectID))

	responses, err := svc.Responses(ctx, subjectID)
	require.NoError(t, err)
	require.Empty(t, responses)
}

func TestSetNameDurableProfile(t *testing.T) {
	svc, profiles, _ := newQuizFixture(t)
	ctx := context.Background()

	profile, err := svc.StartQuiz(ctx, false, "")
	require.NoError(t, err)

	updated, err := svc.SetName(ctx, profile.ID, "Grace")
	require.NoError(t, err)
	require.Equal(t, "Grace", updated.Name)
	require.Equal(t, "Grace", profiles.profiles[profile.ID].Name)
}
