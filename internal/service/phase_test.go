package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opencivics/internal/model"
)

func botSays(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.RoleAssistant, Content: content}
}

func userSays(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.RoleUser, Content: content}
}

func TestResolvePhaseEmptyHistoryIsWelcome(t *testing.T) {
	state := ResolvePhase("hello", nil, nil)
	require.Equal(t, PhaseWelcome, state.Phase)
}

func TestResolvePhaseTriggerBeatsEverything(t *testing.T) {
	// Even with no history at all, an explicit trigger starts the quiz.
	state := ResolvePhase("start_quiz", nil, nil)
	require.Equal(t, PhaseQuizIntroduction, state.Phase)

	state = ResolvePhase("Take the Quiz", []model.ChatMessage{botSays("welcome!")}, nil)
	require.Equal(t, PhaseQuizIntroduction, state.Phase)

	state = ResolvePhase("find my archetype", nil, nil)
	require.Equal(t, PhaseQuizIntroduction, state.Phase)
}

func TestResolvePhaseNameCollection(t *testing.T) {
	history := []model.ChatMessage{
		userSays("start quiz"),
		botSays("Excellent! Let's find your civic archetype. Before we begin, what should I call you?"),
	}
	state := ResolvePhase("Ada", history, nil)
	require.Equal(t, PhaseNameCollection, state.Phase)
}

func TestResolvePhaseNamedProfileSkipsNameCollection(t *testing.T) {
	history := []model.ChatMessage{
		botSays("what should I call you?"),
	}
	profile := &model.Profile{ID: "ephemeral_abc", Name: "Ada"}
	state := ResolvePhase("ok", history, profile)
	require.NotEqual(t, PhaseNameCollection, state.Phase)
}

func TestResolvePhaseInterestExploration(t *testing.T) {
	history := []model.ChatMessage{
		botSays("Let's explore your interests! Which civic topics are you most passionate about?"),
	}
	state := ResolvePhase("housing and education", history, nil)
	require.Equal(t, PhaseInterestExploration, state.Phase)
}

func TestResolvePhaseQuizQuestionCountsAnswers(t *testing.T) {
	profile := &model.Profile{ID: "ephemeral_abc", Name: "Ada"}
	history := []model.ChatMessage{
		botSays("**Question 1 of 5**"),
		userSays("Learning & exploring — I want to understand these ideas and frameworks"),
		botSays("**Question 2 of 5**"),
	}
	state := ResolvePhase("hmm", history, profile)
	require.Equal(t, PhaseQuizQuestion, state.Phase)
	require.Equal(t, 1, state.QuestionIndex)
}

func TestResolvePhaseCompletedProfileIsGeneral(t *testing.T) {
	profile := &model.Profile{ID: "p_abc", Name: "Ada", QuizCompleted: true}
	history := []model.ChatMessage{botSays("here is your summary")}
	state := ResolvePhase("thanks!", history, profile)
	require.Equal(t, PhaseGeneral, state.Phase)
}

func TestIsQuizTriggerNormalization(t *testing.T) {
	require.True(t, IsQuizTrigger("start_quiz"))
	require.True(t, IsQuizTrigger("Start Quiz"))
	require.True(t, IsQuizTrigger("  take the quiz "))
	require.True(t, IsQuizTrigger("discover my role"))
	require.False(t, IsQuizTrigger("what is an archetype?"))
}

func TestIsQuizTriggerMatchesPhrasesInsideSentences(t *testing.T) {
	require.True(t, IsQuizTrigger("I'd like to take the quiz"))
	require.True(t, IsQuizTrigger("can we begin quiz stuff?"))
	require.True(t, IsQuizTrigger("ready for my assessment"))
	require.False(t, IsQuizTrigger("tell me about archetypes"))
	require.False(t, IsQuizTrigger("how does onboarding work?"))
}

func TestResolvePhaseCountsCommaJoinedMultiSelectAnswers(t *testing.T) {
	profile := &model.Profile{ID: "ephemeral_abc", Name: "Ada"}
	history := []model.ChatMessage{
		botSays("**Question 1 of 9**"),
		userSays("Learning & exploring — I want to understand these ideas and frameworks"),
		botSays("**Question 2 of 9**"),
		userSays("Governance & Political Systems, Educational & Learning Systems"),
		botSays("**Question 3 of 9**"),
	}
	state := ResolvePhase("next", history, profile)
	require.Equal(t, PhaseQuizQuestion, state.Phase)
	require.Equal(t, 2, state.QuestionIndex)
}
