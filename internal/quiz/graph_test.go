package quiz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opencivics/internal/model"
)

func TestNextQuestionFromStart(t *testing.T) {
	q := NextQuestion(-1, map[string]any{})

	require.NotNil(t, q)
	require.Equal(t, "intro_welcome", q.ID)
}

func TestNextQuestionSkipsHiddenFollowUp(t *testing.T) {
	answers := map[string]any{"resource_contribution_primary": "time_learning"}

	q := NextQuestion(IndexOf("resource_contribution_primary"), answers)

	require.NotNil(t, q)
	require.Equal(t, "participation_mode", q.ID)
}

func TestNextQuestionShowsConditionalFollowUp(t *testing.T) {
	answers := map[string]any{"resource_contribution_primary": "hybrid_multiple"}

	q := NextQuestion(IndexOf("resource_contribution_primary"), answers)

	require.NotNil(t, q)
	require.Equal(t, "resource_contribution_multiple", q.ID)
}

func TestNextQuestionSkipsConsecutiveHidden(t *testing.T) {
	// Neither innovation_domains nor specific_skills applies to a pure
	// learner, so both are skipped in one traversal
	answers := map[string]any{
		"resource_contribution_primary": "time_learning",
		"participation_mode":            "learning",
	}

	q := NextQuestion(IndexOf("civic_sectors"), answers)

	require.NotNil(t, q)
	require.Equal(t, "time_commitment", q.ID)
}

func TestNextQuestionTerminal(t *testing.T) {
	answers := map[string]any{"engagement_stage": "new_curious"}

	q := NextQuestion(IndexOf("experience_background"), answers)

	// current_work hides for new participants and nothing follows it
	require.Nil(t, q)
}

func TestNextQuestionTerminalWithTrailingShown(t *testing.T) {
	answers := map[string]any{"engagement_stage": "building_something"}

	q := NextQuestion(IndexOf("experience_background"), answers)
	require.NotNil(t, q)
	require.Equal(t, "current_work", q.ID)

	require.Nil(t, NextQuestion(IndexOf("current_work"), answers))
}

func TestQuestionByID(t *testing.T) {
	q := QuestionByID("time_commitment")
	require.NotNil(t, q)
	require.Equal(t, model.QuestionSingleSelect, q.Type)

	require.Nil(t, QuestionByID("no_such_question"))
}

func TestNumberedQuestionsExcludeConditionalAndOpenEnded(t *testing.T) {
	numbered := NumberedQuestions()

	ids := make([]string, 0, len(numbered))
	for _, q := range numbered {
		ids = append(ids, q.ID)
	}

	require.Equal(t, []string{
		"resource_contribution_primary",
		"participation_mode",
		"engagement_stage",
		"civic_sectors",
		"time_commitment",
	}, ids)
}

func TestAnswersByID(t *testing.T) {
	responses := []model.Response{
		{QuestionID: "participation_mode", Value: "building"},
		{QuestionID: "civic_sectors", Value: []string{"governance"}},
	}

	answers := AnswersByID(responses)

	require.Equal(t, "building", answers["participation_mode"])
	require.Equal(t, []string{"governance"}, answers["civic_sectors"])
}
