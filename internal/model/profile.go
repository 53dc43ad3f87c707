package model

import (
	"strings"
	"time"
)

// EphemeralPrefix marks subject ids that live in the in-process session
// store instead of the durable repository
const EphemeralPrefix = "ephemeral_"

// IsEphemeralID reports whether a subject id belongs to the session tier
func IsEphemeralID(id string) bool {
	return strings.HasPrefix(id, EphemeralPrefix)
}

// EngagementAction is one entry in a profile's append-only action log
type EngagementAction struct {
	Action    string    `json:"action" bson:"action"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Profile is the identity record for an onboarding participant. Durable
// profiles are created at quiz start and persisted through completion;
// ephemeral profiles are synthesized in memory with the same shape and
// discarded with the session.
type Profile struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`

	// Classification outcome, flattened in so a single profile read
	// answers "who is this and what did we decide"
	Archetype           Archetype             `json:"archetype,omitempty" bson:"archetype,omitempty"`
	SecondaryArchetype  Archetype             `json:"secondaryArchetype,omitempty" bson:"secondaryArchetype,omitempty"`
	ArchetypeConfidence float64               `json:"archetypeConfidence,omitempty" bson:"archetypeConfidence,omitempty"`
	ArchetypeBreakdown  map[Archetype]float64 `json:"archetypeBreakdown,omitempty" bson:"archetypeBreakdown,omitempty"`
	ConsortiumRole      ConsortiumRole        `json:"consortiumRole,omitempty" bson:"consortiumRole,omitempty"`

	QuizCompleted   bool       `json:"quizCompleted" bson:"quizCompleted"`
	QuizCompletedAt *time.Time `json:"quizCompletedAt,omitempty" bson:"quizCompletedAt,omitempty"`
	Summary         string     `json:"summary,omitempty" bson:"summary,omitempty"`

	EngagementLog []EngagementAction `json:"engagementLog,omitempty" bson:"engagementLog,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsEphemeral reports whether the profile lives only in the session store
func (p *Profile) IsEphemeral() bool {
	return IsEphemeralID(p.ID)
}

// ApplyAnalysis copies the classification outcome onto the profile
func (p *Profile) ApplyAnalysis(a *ArchetypeAnalysis) {
	p.Archetype = a.ValidatedArchetype
	p.SecondaryArchetype = a.SecondaryArchetype
	p.ArchetypeConfidence = a.Confidence
	p.ArchetypeBreakdown = a.ArchetypeBreakdown
	p.ConsortiumRole = a.ConsortiumRole
}
