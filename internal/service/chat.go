package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"opencivics/internal/config"
	"opencivics/internal/model"
	"opencivics/internal/quiz"
	"opencivics/internal/repository"
)

// ChatRequest is one inbound conversation turn.
type ChatRequest struct {
	SubjectID string              `json:"subjectId,omitempty"`
	Message   string              `json:"message"`
	Action    string              `json:"action,omitempty"`
	History   []model.ChatMessage `json:"history,omitempty"`
}

// ChatReply is the controller's answer to one turn.
type ChatReply struct {
	SubjectID    string              `json:"subjectId"`
	Messages     []model.ChatMessage `json:"messages"`
	Phase        DialoguePhase       `json:"phase"`
	QuizComplete bool                `json:"quizComplete,omitempty"`
	Completion   *CompletionResult   `json:"completion,omitempty"`
}

// ChatService is the conversation controller. It derives the dialogue
// phase from the transcript, routes quiz answers through the quiz
// service, and hands open-ended turns to Gemini.
type ChatService struct {
	quiz          *QuizService
	completion    *CompletionService
	resources     *ResourceService
	gemini        *GeminiClient
	conversations repository.ConversationRepository
}

func NewChatService(
	quizSvc *QuizService,
	completion *CompletionService,
	resources *ResourceService,
	gemini *GeminiClient,
	conversations repository.ConversationRepository,
) *ChatService {
	return &ChatService{
		quiz:          quizSvc,
		completion:    completion,
		resources:     resources,
		gemini:        gemini,
		conversations: conversations,
	}
}

// Process handles one conversation turn.
func (s *ChatService) Process(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	profile := s.loadProfile(ctx, req.SubjectID)

	if req.Action != "" {
		reply := s.handleAction(ctx, req, profile)
		s.record(ctx, req, reply)
		return reply, nil
	}

	state := ResolvePhase(req.Message, req.History, profile)

	var (
		reply *ChatReply
		err   error
	)
	switch state.Phase {
	case PhaseWelcome:
		reply = s.welcome(req)
	case PhaseQuizIntroduction:
		reply, err = s.introduceQuiz(ctx, req, profile)
	case PhaseNameCollection:
		reply, err = s.collectName(ctx, req, profile)
	case PhaseQuizQuestion:
		reply, err = s.answerQuestion(ctx, req, profile)
	case PhaseInterestExploration:
		reply = s.exploreInterests(ctx, req, profile)
	case PhaseArchetypeAnalysis:
		reply, err = s.finishQuiz(ctx, req, profile)
	default:
		reply = s.converse(ctx, req, profile)
	}
	if err != nil {
		return nil, err
	}

	reply.Phase = state.Phase
	s.record(ctx, req, reply)
	return reply, nil
}

func (s *ChatService) loadProfile(ctx context.Context, subjectID string) *model.Profile {
	if subjectID == "" {
		return nil
	}
	profile, err := s.quiz.GetProfile(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Printf("chat: profile load failed for %s: %v", subjectID, err)
		}
		return nil
	}
	return profile
}

// record mirrors the turn into the durable transcript for durable
// profiles. Transcript writes are best-effort; the reply already left.
func (s *ChatService) record(ctx context.Context, req ChatRequest, reply *ChatReply) {
	if reply == nil || reply.SubjectID == "" || model.IsEphemeralID(reply.SubjectID) {
		return
	}
	if req.Message != "" {
		s.append(ctx, reply.SubjectID, model.RoleUser, req.Message)
	}
	for _, msg := range reply.Messages {
		s.append(ctx, reply.SubjectID, msg.Role, msg.Content)
	}
}

func (s *ChatService) append(ctx context.Context, profileID string, role model.MessageRole, content string) {
	err := s.conversations.Append(ctx, &model.ConversationMessage{
		ProfileID: profileID,
		Role:      role,
		Content:   content,
	})
	if err != nil {
		log.Printf("chat: transcript append failed for %s: %v", profileID, err)
	}
}

func (s *ChatService) welcome(req ChatRequest) *ChatReply {
	return &ChatReply{
		SubjectID: req.SubjectID,
		Messages: []model.ChatMessage{assistantMessage(
			"Welcome to OpenCivics! I'm here to help you find your place in the civic innovation network. "+
				"You can take a short quiz to discover your civic archetype, or just ask me anything.",
			model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"},
			model.MessageButton{Label: "Explore Resources", Action: "explore_resources"},
			model.MessageButton{Label: "Learn More", Action: "learn_more"},
		)},
	}
}

func (s *ChatService) introduceQuiz(ctx context.Context, req ChatRequest, profile *model.Profile) (*ChatReply, error) {
	if profile == nil {
		created, err := s.quiz.StartQuiz(ctx, true, "")
		if err != nil {
			return nil, err
		}
		profile = created
	}

	if profile.Name == "" {
		msg := assistantMessage("Excellent! Let's find your civic archetype. Before we begin, what should I call you?")
		msg.InputField = "name"
		return &ChatReply{SubjectID: profile.ID, Messages: []model.ChatMessage{msg}}, nil
	}

	return s.presentNextQuestion(ctx, profile.ID, fmt.Sprintf("Great to have you back, %s! Let's continue.", profile.Name))
}

func (s *ChatService) collectName(ctx context.Context, req ChatRequest, profile *model.Profile) (*ChatReply, error) {
	name := extractName(req.Message)
	if name == "" {
		msg := assistantMessage("Sorry, I didn't catch your name. What should I call you?")
		msg.InputField = "name"
		return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{msg}}, nil
	}

	if profile == nil {
		created, err := s.quiz.StartQuiz(ctx, true, name)
		if err != nil {
			return nil, err
		}
		profile = created
	} else {
		updated, err := s.quiz.SetName(ctx, profile.ID, name)
		if err != nil {
			return nil, err
		}
		profile = updated
	}

	return s.presentNextQuestion(ctx, profile.ID, fmt.Sprintf("Nice to meet you, %s!", name))
}

func (s *ChatService) answerQuestion(ctx context.Context, req ChatRequest, profile *model.Profile) (*ChatReply, error) {
	if profile == nil {
		return s.introduceQuiz(ctx, req, nil)
	}

	question, err := s.quiz.NextQuestion(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return s.finishQuiz(ctx, req, profile)
	}

	number, total := questionPosition(ctx, s.quiz, profile.ID, question)

	value, ok := parseAnswer(question, req.Message)
	if !ok {
		msg := formatQuestion(question, number, total)
		msg.Content = "I didn't recognize that answer. " + msg.Content
		return &ChatReply{SubjectID: profile.ID, Messages: []model.ChatMessage{msg}}, nil
	}

	if _, err := s.quiz.SaveResponse(ctx, profile.ID, question.ID, value, req.Message, 0); err != nil {
		var validation *model.ValidationError
		if errors.As(err, &validation) {
			msg := formatQuestion(question, number, total)
			msg.Content = validation.Reason + ". " + msg.Content
			return &ChatReply{SubjectID: profile.ID, Messages: []model.ChatMessage{msg}}, nil
		}
		return nil, err
	}

	return s.presentNextQuestion(ctx, profile.ID, "")
}

// presentNextQuestion shows the next visible unanswered question, or
// runs completion when the graph is exhausted.
func (s *ChatService) presentNextQuestion(ctx context.Context, subjectID, preamble string) (*ChatReply, error) {
	question, err := s.quiz.NextQuestion(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	var messages []model.ChatMessage
	if preamble != "" {
		messages = append(messages, assistantMessage(preamble))
	}

	if question == nil {
		result, err := s.runCompletion(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, result.Messages...)
		return &ChatReply{SubjectID: subjectID, Messages: messages, QuizComplete: true, Completion: result.Completion}, nil
	}

	number, total := questionPosition(ctx, s.quiz, subjectID, question)
	messages = append(messages, formatQuestion(question, number, total))
	return &ChatReply{SubjectID: subjectID, Messages: messages}, nil
}

func (s *ChatService) finishQuiz(ctx context.Context, req ChatRequest, profile *model.Profile) (*ChatReply, error) {
	subjectID := req.SubjectID
	if profile != nil {
		subjectID = profile.ID
	}
	result, err := s.runCompletion(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return &ChatReply{SubjectID: subjectID, Messages: result.Messages, QuizComplete: true, Completion: result.Completion}, nil
}

type completionMessages struct {
	Messages   []model.ChatMessage
	Completion *CompletionResult
}

// runCompletion executes the completion pipeline and formats it for
// chat. A summary timeout degrades to the analysis without a summary
// instead of failing the turn.
func (s *ChatService) runCompletion(ctx context.Context, subjectID string) (*completionMessages, error) {
	result, err := s.completion.Complete(ctx, subjectID, nil)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSummaryTimeout) && result != nil:
			log.Printf("chat: summary timed out for %s, replying without it", subjectID)
		case errors.Is(err, model.ErrNoResponses):
			return &completionMessages{Messages: []model.ChatMessage{assistantMessage(
				"You haven't answered any quiz questions yet. Say \"start quiz\" whenever you're ready!",
				model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"},
			)}}, nil
		default:
			return nil, err
		}
	}

	return &completionMessages{
		Messages:   formatCompletion(result),
		Completion: result,
	}, nil
}

func (s *ChatService) exploreInterests(ctx context.Context, req ChatRequest, profile *model.Profile) *ChatReply {
	sectors, domains := extractInterests(ctx, s.gemini, req.Message)

	found := s.resources.Search(ctx, model.SearchFilters{
		CivicSectors:      sectors,
		InnovationDomains: domains,
		Limit:             3,
	})

	var b strings.Builder
	if len(sectors) > 0 {
		b.WriteString(fmt.Sprintf("It sounds like you care about %s. ", strings.Join(sectors, " and ")))
	}
	if len(found) > 0 {
		b.WriteString("Here are some places to start:\n\n")
		for _, r := range found {
			b.WriteString(fmt.Sprintf("- **%s** — %s\n", r.Title, r.Description))
		}
	} else {
		b.WriteString("Tell me more about what you'd like to work on, or take the quiz to get matched with your archetype.")
	}

	return &ChatReply{
		SubjectID: req.SubjectID,
		Messages: []model.ChatMessage{assistantMessage(b.String(),
			model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"},
			model.MessageButton{Label: "Explore Resources", Action: "explore_resources"},
		)},
	}
}

func (s *ChatService) handleAction(ctx context.Context, req ChatRequest, profile *model.Profile) *ChatReply {
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "learn_more":
		return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{assistantMessage(
			"OpenCivics is a network of people building civic infrastructure together. Members are matched to one of "+
				"four archetypes — allies, innovators, organizers, and patrons — so everyone contributes the way they do best.",
			model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"},
		)}}
	case "explore_resources":
		found := s.resources.Search(ctx, model.SearchFilters{Limit: 5})
		var b strings.Builder
		b.WriteString("Here's a sample of what the network offers:\n\n")
		for _, r := range found {
			b.WriteString(fmt.Sprintf("- **%s** — %s\n", r.Title, r.Description))
		}
		return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{assistantMessage(b.String(),
			model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"},
		)}}
	case "view_recommendations":
		reply, err := s.finishQuiz(ctx, req, profile)
		if err != nil {
			log.Printf("chat: recommendations failed for %s: %v", req.SubjectID, err)
			return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{assistantMessage(
				"I couldn't fetch your recommendations just now. Try again in a moment.")}}
		}
		return reply
	case "join_network":
		return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{assistantMessage(
			"Wonderful! To join, complete the archetype quiz so we can match you with the right role, " +
				"then follow the invitation in your summary.")}}
	case "explore_interests":
		msg := assistantMessage("Let's explore your interests! Which civic topics are you most passionate about?")
		return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{msg}}
	}

	return s.converse(ctx, req, profile)
}

// converse handles open-ended turns through Gemini, with a canned
// answer when the model is unavailable.
func (s *ChatService) converse(ctx context.Context, req ChatRequest, profile *model.Profile) *ChatReply {
	if !s.gemini.IsEnabled() {
		return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{assistantMessage(
			"I can tell you about the OpenCivics network, or help you discover your role with a quick quiz.",
			model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"},
			model.MessageButton{Label: "Learn More", Action: "learn_more"},
		)}}
	}

	text, err := s.gemini.Generate(ctx, s.gemini.Models().Chat, config.ChatParams, buildChatPrompt(req, profile))
	if err != nil {
		log.Printf("chat: gemini conversation failed: %v", err)
		return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{assistantMessage(
			"I'm having trouble thinking right now. Meanwhile, want to take the archetype quiz?",
			model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"},
		)}}
	}

	msg := assistantMessage(strings.TrimSpace(text))
	msg.Buttons = annotateButtons(msg.Content)
	return &ChatReply{SubjectID: req.SubjectID, Messages: []model.ChatMessage{msg}}
}

func buildChatPrompt(req ChatRequest, profile *model.Profile) string {
	var b strings.Builder
	b.WriteString("You are the friendly onboarding guide for OpenCivics, a civic innovation network. ")
	b.WriteString("Answer briefly and helpfully. If relevant, suggest taking the archetype quiz.\n\n")

	if profile != nil {
		if profile.Name != "" {
			b.WriteString(fmt.Sprintf("The user's name is %s.\n", profile.Name))
		}
		if profile.Archetype != "" {
			b.WriteString(fmt.Sprintf("Their archetype is %s.\n", profile.Archetype))
		}
	}

	recent := req.History
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for _, msg := range recent {
		b.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}
	b.WriteString(fmt.Sprintf("user: %s\nassistant:", req.Message))
	return b.String()
}

// annotateButtons attaches suggested-action buttons when the reply text
// invites one.
func annotateButtons(content string) []model.MessageButton {
	lower := strings.ToLower(content)
	var buttons []model.MessageButton
	if strings.Contains(lower, "quiz") || strings.Contains(lower, "discover your role") {
		buttons = append(buttons, model.MessageButton{Label: "Take the Quiz", Action: "start_quiz"})
	}
	if strings.Contains(lower, "resources") || strings.Contains(lower, "explore") {
		buttons = append(buttons, model.MessageButton{Label: "Explore Resources", Action: "explore_resources"})
	}
	if strings.Contains(lower, "learn more") || strings.Contains(lower, "tell you more") {
		buttons = append(buttons, model.MessageButton{Label: "Learn More", Action: "learn_more"})
	}
	return buttons
}

// extractInterests asks Gemini to pull civic sectors and innovation
// domains out of free text, falling back to keyword matching.
func extractInterests(ctx context.Context, gemini *GeminiClient, message string) (sectors, domains []string) {
	if gemini.IsEnabled() {
		prompt := fmt.Sprintf(
			"Extract civic sectors and innovation domains from this message: %q\n"+
				"Respond with JSON only: {\"civic_sectors\": [], \"innovation_domains\": []}", message)
		text, err := gemini.Generate(ctx, gemini.Models().Extraction, config.ExtractionParams, prompt)
		if err == nil {
			var parsed struct {
				CivicSectors      []string `json:"civic_sectors"`
				InnovationDomains []string `json:"innovation_domains"`
			}
			if err := ParseGeminiJSON(text, &parsed); err == nil {
				return parsed.CivicSectors, parsed.InnovationDomains
			}
		}
		log.Printf("chat: interest extraction fell back to keywords: %v", err)
	}

	lower := strings.ToLower(message)
	if sectorsQuestion := quiz.QuestionByID("civic_sectors"); sectorsQuestion != nil {
		for _, opt := range sectorsQuestion.Options {
			if strings.Contains(lower, strings.ToLower(opt.Label)) || strings.Contains(lower, opt.Value) {
				sectors = append(sectors, opt.Value)
			}
		}
	}
	if domainsQuestion := quiz.QuestionByID("innovation_domains"); domainsQuestion != nil {
		for _, opt := range domainsQuestion.Options {
			if strings.Contains(lower, strings.ToLower(opt.Label)) || strings.Contains(lower, opt.Value) {
				domains = append(domains, opt.Value)
			}
		}
	}
	return sectors, domains
}

// parseAnswer matches a chat message against a question's options. For
// multi-select questions the message may be a comma-separated list.
func parseAnswer(question *model.Question, message string) (any, bool) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, false
	}

	switch question.Type {
	case model.QuestionSingleSelect:
		if opt := matchOption(question, trimmed); opt != nil {
			return opt.Value, true
		}
		return nil, false

	case model.QuestionMultiSelect:
		parts := strings.Split(trimmed, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			opt := matchOption(question, strings.TrimSpace(part))
			if opt == nil {
				return nil, false
			}
			values = append(values, opt.Value)
		}
		return values, true

	default:
		return trimmed, true
	}
}

func matchOption(question *model.Question, text string) *model.QuestionOption {
	lower := strings.ToLower(text)
	for i := range question.Options {
		opt := &question.Options[i]
		if strings.ToLower(opt.Label) == lower || strings.ToLower(opt.Value) == lower {
			return opt
		}
	}
	return nil
}

// questionPosition computes "question N of M" over the questions
// currently visible given the recorded answers.
func questionPosition(ctx context.Context, quizSvc *QuizService, subjectID string, current *model.Question) (int, int) {
	responses, err := quizSvc.Responses(ctx, subjectID)
	if err != nil {
		return quiz.IndexOf(current.ID) + 1, quiz.TotalQuestions()
	}
	answers := quiz.AnswersByID(flattenResponses(responses))

	number, total := 0, 0
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if !quiz.EvaluateCondition(q.ShowIf, answers) {
			continue
		}
		total++
		if q.ID == current.ID {
			number = total
		}
	}
	if number == 0 {
		number = total
	}
	return number, total
}

func formatQuestion(question *model.Question, number, total int) model.ChatMessage {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**Question %d of %d**\n\n%s", number, total, question.Text))
	if question.Description != "" {
		b.WriteString("\n\n" + question.Description)
	}
	if question.Type == model.QuestionMultiSelect {
		b.WriteString("\n\n_Select all that apply, separated by commas._")
	}

	msg := assistantMessage(b.String())
	for _, opt := range question.Options {
		msg.Buttons = append(msg.Buttons, model.MessageButton{Label: opt.Label, Action: opt.Value})
	}
	if !question.IsSelect() {
		msg.InputField = "text"
	}
	return msg
}

func formatCompletion(result *CompletionResult) []model.ChatMessage {
	analysis := result.Analysis

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎉 You're an **%s**! (%.0f%% confidence)\n\n", titleArchetype(analysis.ValidatedArchetype), analysis.Confidence*100))
	if analysis.SecondaryArchetype != "" {
		b.WriteString(fmt.Sprintf("With a secondary leaning toward **%s**.\n\n", titleArchetype(analysis.SecondaryArchetype)))
	}
	b.WriteString(analysis.Reasoning + "\n\n")
	b.WriteString(fmt.Sprintf("In the consortium you'd join as a **%s**.\n", analysis.ConsortiumRole))

	if len(analysis.EngagementStrengths) > 0 {
		b.WriteString("\nYour strengths:\n")
		for _, strength := range analysis.EngagementStrengths {
			b.WriteString("- " + strength + "\n")
		}
	}
	if len(analysis.RecommendedSteps) > 0 {
		b.WriteString("\nSuggested next steps:\n")
		for _, step := range analysis.RecommendedSteps {
			b.WriteString("- " + step + "\n")
		}
	}

	messages := []model.ChatMessage{assistantMessage(b.String(),
		model.MessageButton{Label: "View Recommendations", Action: "view_recommendations"},
		model.MessageButton{Label: "Join the Network", Action: "join_network"},
	)}

	if result.Summary != "" {
		messages = append(messages, assistantMessage(result.Summary))
	}
	return messages
}

func titleArchetype(a model.Archetype) string {
	s := string(a)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// extractName pulls a name out of a free-text introduction.
func extractName(message string) string {
	name := strings.TrimSpace(message)
	lower := strings.ToLower(name)
	for _, prefix := range []string{"my name is ", "i am ", "i'm ", "call me ", "it's ", "its "} {
		if strings.HasPrefix(lower, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}
	name = strings.Trim(name, ".!,")
	if name == "" || len(name) > 60 {
		return ""
	}
	return name
}

func assistantMessage(content string, buttons ...model.MessageButton) model.ChatMessage {
	return model.ChatMessage{
		Role:      model.RoleAssistant,
		Content:   content,
		Buttons:   buttons,
		Timestamp: time.Now(),
	}
}
