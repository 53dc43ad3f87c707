package service

import (
	"strings"

	"opencivics/internal/model"
	"opencivics/internal/quiz"
)

// DialoguePhase names where in the onboarding flow a conversation is.
type DialoguePhase string

const (
	PhaseWelcome             DialoguePhase = "welcome"
	PhaseQuizIntroduction    DialoguePhase = "quiz_introduction"
	PhaseNameCollection      DialoguePhase = "name_collection"
	PhaseQuizQuestion        DialoguePhase = "quiz_question"
	PhaseInterestExploration DialoguePhase = "interest_exploration"
	PhaseArchetypeAnalysis   DialoguePhase = "archetype_analysis"
	PhaseGeneral             DialoguePhase = "general"
)

// PhaseState is the resolved phase plus the question index when the
// phase is quiz_question.
type PhaseState struct {
	Phase         DialoguePhase
	QuestionIndex int
}

// quizTriggers start the quiz when any of them appears in a message,
// so both the "start_quiz" button value and a typed "I'd like to take
// the quiz" route the same way. Underscores and spaces are
// interchangeable.
var quizTriggers = []string{
	"start quiz",
	"take quiz",
	"take the quiz",
	"begin quiz",
	"quiz",
	"assessment",
	"find my archetype",
	"discover my role",
}

// Assistant phrases that define a phase. The resolver derives phase from
// the transcript, so these strings are a contract between the message
// templates and the resolver; change them together.
const (
	promptAskName     = "what should i call you"
	promptMissedName  = "didn't catch your name"
	promptInterests   = "explore your interests"
	promptCivicTopics = "civic topics are you most passionate about"
)

// IsQuizTrigger reports whether a user message explicitly starts the
// quiz. Matching is case-insensitive and scans for trigger phrases
// anywhere in the message.
func IsQuizTrigger(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	for _, trigger := range quizTriggers {
		if strings.Contains(normalized, trigger) {
			return true
		}
	}
	return false
}

// ResolvePhase derives the dialogue phase from the transcript and the
// current profile. The transcript is the source of truth: there is no
// separate conversation-state record to drift out of sync.
func ResolvePhase(message string, history []model.ChatMessage, profile *model.Profile) PhaseState {
	if IsQuizTrigger(message) {
		return PhaseState{Phase: PhaseQuizIntroduction}
	}

	if len(history) == 0 {
		return PhaseState{Phase: PhaseWelcome}
	}

	lastBot := lastAssistantMessage(history)

	if profile == nil || profile.Name == "" {
		if containsAny(lastBot, promptAskName, promptMissedName) {
			return PhaseState{Phase: PhaseNameCollection}
		}
	}

	if containsAny(lastBot, promptInterests, promptCivicTopics) {
		return PhaseState{Phase: PhaseInterestExploration}
	}

	if profile != nil && !profile.QuizCompleted {
		answered := countAnsweredQuestions(history)
		if answered < len(quiz.NumberedQuestions()) {
			return PhaseState{Phase: PhaseQuizQuestion, QuestionIndex: answered}
		}
		return PhaseState{Phase: PhaseArchetypeAnalysis}
	}

	return PhaseState{Phase: PhaseGeneral}
}

func lastAssistantMessage(history []model.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleAssistant {
			return strings.ToLower(history[i].Content)
		}
	}
	return ""
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// countAnsweredQuestions counts user messages that contain a known
// option label, which is how quiz answers appear in the transcript.
// Multi-select answers arrive as comma-joined labels, so the scan is a
// substring match; each message counts once.
func countAnsweredQuestions(history []model.ChatMessage) int {
	labels := optionLabels()
	count := 0
	for _, msg := range history {
		if msg.Role != model.RoleUser {
			continue
		}
		content := strings.ToLower(strings.TrimSpace(msg.Content))
		for _, label := range labels {
			if strings.Contains(content, label) {
				count++
				break
			}
		}
	}
	return count
}

func optionLabels() []string {
	var labels []string
	for i := range quiz.Questions {
		for _, opt := range quiz.Questions[i].Options {
			labels = append(labels, strings.ToLower(opt.Label))
		}
	}
	return labels
}
