package store

import (
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"opencivics/internal/model"
)

// sessionState is everything held for one ephemeral subject. All access
// goes through the per-session mutex so concurrent turns for the same
// session serialize instead of losing updates.
type sessionState struct {
	mu        sync.Mutex
	profile   *model.Profile
	interests *model.Interests
	responses map[string]*model.Response // keyed by question id
}

// SessionStore holds ephemeral onboarding state in process memory. Entries
// expire on TTL and the cache is size-bounded, so abandoned sessions are
// reclaimed instead of accumulating for the life of the process.
type SessionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *sessionState]
}

// NewSessionStore builds a session store holding at most size sessions,
// each expiring ttl after last write.
func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: expirable.NewLRU[string, *sessionState](size, nil, ttl),
	}
}

func (s *SessionStore) session(id string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.sessions.Get(id); ok {
		return state
	}
	state := &sessionState{responses: make(map[string]*model.Response)}
	s.sessions.Add(id, state)
	return state
}

// SaveResponse upserts a response keyed by question id
func (s *SessionStore) SaveResponse(sessionID string, response *model.Response) {
	state := s.session(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	now := time.Now()
	if existing, ok := state.responses[response.QuestionID]; ok {
		response.CreatedAt = existing.CreatedAt
	} else if response.CreatedAt.IsZero() {
		response.CreatedAt = now
	}
	response.UpdatedAt = now
	state.responses[response.QuestionID] = response
}

// Responses returns the session's responses ordered by question position
func (s *SessionStore) Responses(sessionID string) []*model.Response {
	state := s.session(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	out := make([]*model.Response, 0, len(state.responses))
	for _, r := range state.responses {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QuestionOrder < out[j].QuestionOrder
	})
	return out
}

// DeleteResponses clears the session's answers for a quiz restart,
// keeping the profile
func (s *SessionStore) DeleteResponses(sessionID string) {
	state := s.session(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	state.responses = make(map[string]*model.Response)
}

// SetProfile stores the synthesized in-memory profile for a session
func (s *SessionStore) SetProfile(sessionID string, profile *model.Profile) {
	state := s.session(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	state.profile = profile
}

// Profile returns the session's profile, or nil when none was synthesized
func (s *SessionStore) Profile(sessionID string) *model.Profile {
	state := s.session(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	return state.profile
}

// SetInterests stores derived interests for a session
func (s *SessionStore) SetInterests(sessionID string, interests *model.Interests) {
	state := s.session(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	state.interests = interests
}

// Interests returns the session's derived interests, or nil
func (s *SessionStore) Interests(sessionID string) *model.Interests {
	state := s.session(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	return state.interests
}

// Drop discards a session entirely
func (s *SessionStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Remove(sessionID)
}

// Len reports how many sessions are currently live
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Len()
}
