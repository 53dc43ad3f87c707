package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"opencivics/internal/cache"
	"opencivics/internal/model"
	"opencivics/internal/quiz"
	"opencivics/internal/repository"
	"opencivics/internal/store"
)

// QuizService runs the onboarding quiz lifecycle: creating profiles,
// validating and recording answers, and walking the question graph.
type QuizService struct {
	store        *store.DualStore
	profiles     repository.ProfileRepository
	interests    repository.InterestsRepository
	profileCache cache.ProfileCache
}

func NewQuizService(dual *store.DualStore, profiles repository.ProfileRepository, interests repository.InterestsRepository, profileCache cache.ProfileCache) *QuizService {
	return &QuizService{store: dual, profiles: profiles, interests: interests, profileCache: profileCache}
}

func newProfileID(ephemeral bool) string {
	suffix := uuid.NewString()[:8]
	if ephemeral {
		return model.EphemeralPrefix + suffix
	}
	return "p_" + suffix
}

// StartQuiz creates a profile for a new quiz run. Ephemeral profiles
// live only in the session store and never touch Mongo.
func (s *QuizService) StartQuiz(ctx context.Context, ephemeral bool, name string) (*model.Profile, error) {
	now := time.Now()
	profile := &model.Profile{
		ID:        newProfileID(ephemeral),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if ephemeral {
		s.store.Sessions().SetProfile(profile.ID, profile)
		return profile, nil
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, &model.PersistenceError{Backing: "durable", Op: "create profile", Err: err}
	}
	return profile, nil
}

// GetProfile looks up a profile in the tier its id belongs to.
func (s *QuizService) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	if model.IsEphemeralID(id) {
		if profile := s.store.Sessions().Profile(id); profile != nil {
			return profile, nil
		}
		return nil, model.ErrNotFound
	}

	if s.profileCache != nil {
		if cached, err := s.profileCache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, &model.PersistenceError{Backing: "durable", Op: "get profile", Err: err}
	}
	if profile == nil {
		return nil, model.ErrNotFound
	}

	if s.profileCache != nil {
		if err := s.profileCache.Set(ctx, profile); err != nil {
			log.Printf("quiz: profile cache set failed: %v", err)
		}
	}
	return profile, nil
}

// Interests returns the derived interest record for a profile, or nil
// when completion has not run yet.
func (s *QuizService) Interests(ctx context.Context, id string) (*model.Interests, error) {
	if model.IsEphemeralID(id) {
		return s.store.Sessions().Interests(id), nil
	}

	memberInterests, err := s.interests.GetByProfile(ctx, id)
	if err != nil {
		return nil, &model.PersistenceError{Backing: "durable", Op: "get interests", Err: err}
	}
	return memberInterests, nil
}

// RecordEngagement appends an action to a profile's engagement log.
// Ephemeral profiles keep the log in the session copy.
func (s *QuizService) RecordEngagement(ctx context.Context, id string, action model.EngagementAction) error {
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now()
	}

	if model.IsEphemeralID(id) {
		profile := s.store.Sessions().Profile(id)
		if profile == nil {
			return model.ErrNotFound
		}
		profile.EngagementLog = append(profile.EngagementLog, action)
		s.store.Sessions().SetProfile(id, profile)
		return nil
	}

	if err := s.profiles.AppendEngagement(ctx, id, action); err != nil {
		return &model.PersistenceError{Backing: "durable", Op: "append engagement", Err: err}
	}
	if s.profileCache != nil {
		if err := s.profileCache.Invalidate(ctx, id); err != nil {
			log.Printf("quiz: profile cache invalidate failed: %v", err)
		}
	}
	return nil
}

// SetName records the participant's name in the tier their id belongs to.
func (s *QuizService) SetName(ctx context.Context, id, name string) (*model.Profile, error) {
	if model.IsEphemeralID(id) {
		profile := s.store.Sessions().Profile(id)
		if profile == nil {
			return nil, model.ErrNotFound
		}
		profile.Name = name
		profile.UpdatedAt = time.Now()
		s.store.Sessions().SetProfile(id, profile)
		return profile, nil
	}

	profile, err := s.profiles.Update(ctx, id, bson.M{"name": name})
	if err != nil {
		return nil, &model.PersistenceError{Backing: "durable", Op: "set name", Err: err}
	}
	if profile == nil {
		return nil, model.ErrNotFound
	}
	if s.profileCache != nil {
		if err := s.profileCache.Invalidate(ctx, id); err != nil {
			log.Printf("quiz: profile cache invalidate failed: %v", err)
		}
	}
	return profile, nil
}

// SaveResponse validates an answer against the question graph and
// records it in the right tier.
func (s *QuizService) SaveResponse(ctx context.Context, subjectID, questionID string, value any, rawText string, timeSpentSeconds int) (*model.Response, error) {
	question := quiz.QuestionByID(questionID)
	if question == nil {
		return nil, &model.ValidationError{Field: "questionId", Reason: fmt.Sprintf("unknown question %q", questionID)}
	}

	if err := validateAnswer(question, value, rawText); err != nil {
		return nil, err
	}

	now := time.Now()
	response := &model.Response{
		ID:               "r_" + uuid.NewString()[:8],
		QuestionID:       question.ID,
		QuestionText:     question.Text,
		QuestionType:     question.Type,
		Value:            value,
		RawText:          rawText,
		QuestionOrder:    quiz.IndexOf(question.ID),
		TimeSpentSeconds: timeSpentSeconds,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.SaveResponse(ctx, subjectID, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Responses returns everything recorded so far, ordered by question.
func (s *QuizService) Responses(ctx context.Context, subjectID string) ([]*model.Response, error) {
	return s.store.GetResponses(ctx, subjectID)
}

// NextQuestion returns the first unanswered question whose display
// condition holds, or nil when the quiz is complete.
func (s *QuizService) NextQuestion(ctx context.Context, subjectID string) (*model.Question, error) {
	responses, err := s.store.GetResponses(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	answered := make(map[string]bool, len(responses))
	for _, r := range responses {
		answered[r.QuestionID] = true
	}
	answers := quiz.AnswersByID(flattenResponses(responses))

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if answered[q.ID] {
			continue
		}
		if !quiz.EvaluateCondition(q.ShowIf, answers) {
			continue
		}
		return q, nil
	}
	return nil, nil
}

// Restart wipes all recorded answers for a subject.
func (s *QuizService) Restart(ctx context.Context, subjectID string) error {
	return s.store.DeleteAll(ctx, subjectID)
}

func validateAnswer(question *model.Question, value any, rawText string) error {
	switch question.Type {
	case model.QuestionSingleSelect:
		selected, ok := value.(string)
		if !ok || selected == "" {
			return &model.ValidationError{Field: "value", Reason: "single-select answer must be a non-empty string"}
		}
		if question.Option(selected) == nil {
			return &model.ValidationError{Field: "value", Reason: fmt.Sprintf("%q is not an option for %s", selected, question.ID)}
		}

	case model.QuestionMultiSelect:
		selected := toStringSlice(value)
		if selected == nil {
			return &model.ValidationError{Field: "value", Reason: "multi-select answer must be a list of option values"}
		}
		for _, v := range selected {
			if question.Option(v) == nil {
				return &model.ValidationError{Field: "value", Reason: fmt.Sprintf("%q is not an option for %s", v, question.ID)}
			}
		}
		if question.Validation != nil {
			if question.Validation.MinSelections > 0 && len(selected) < question.Validation.MinSelections {
				return &model.ValidationError{Field: "value", Reason: fmt.Sprintf("select at least %d options", question.Validation.MinSelections)}
			}
			if question.Validation.MaxSelections > 0 && len(selected) > question.Validation.MaxSelections {
				return &model.ValidationError{Field: "value", Reason: fmt.Sprintf("select at most %d options", question.Validation.MaxSelections)}
			}
		}

	case model.QuestionText, model.QuestionConversation:
		text, _ := value.(string)
		if text == "" && rawText == "" {
			return &model.ValidationError{Field: "value", Reason: "text answer must not be empty"}
		}
	}
	return nil
}

func toStringSlice(value any) []string {
	switch vals := value.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			s, ok := v.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}
