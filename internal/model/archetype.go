package model

// Archetype is one of the four fixed participant categories
type Archetype string

const (
	ArchetypeAllies     Archetype = "allies"
	ArchetypeInnovators Archetype = "innovators"
	ArchetypeOrganizers Archetype = "organizers"
	ArchetypePatrons    Archetype = "patrons"
)

// Archetypes is the canonical enumeration order. Scoring ties are broken by
// position in this slice, never by map iteration order.
var Archetypes = []Archetype{
	ArchetypeAllies,
	ArchetypeInnovators,
	ArchetypeOrganizers,
	ArchetypePatrons,
}

// IsValid reports whether a is one of the four known archetypes
func (a Archetype) IsValid() bool {
	for _, known := range Archetypes {
		if a == known {
			return true
		}
	}
	return false
}

// ConsortiumRole is the suggested membership tier for a classified participant
type ConsortiumRole string

const (
	RoleAlly        ConsortiumRole = "ally"
	RoleCitizen     ConsortiumRole = "citizen"
	RoleContributor ConsortiumRole = "contributor"
	RolePatron      ConsortiumRole = "patron"
)

// ArchetypeScores maps each archetype to a non-negative score. After
// normalization the four values sum to 1.0, except for the zero-information
// case where all stay 0.
type ArchetypeScores map[Archetype]float64

// NewArchetypeScores returns a score map with all four archetypes at zero
func NewArchetypeScores() ArchetypeScores {
	s := make(ArchetypeScores, len(Archetypes))
	for _, a := range Archetypes {
		s[a] = 0
	}
	return s
}

// Total returns the sum of all four scores
func (s ArchetypeScores) Total() float64 {
	var total float64
	for _, a := range Archetypes {
		total += s[a]
	}
	return total
}

// ArchetypeAnalysis is the validated classification produced once per
// completed quiz
type ArchetypeAnalysis struct {
	ValidatedArchetype  Archetype       `json:"validated_archetype" bson:"validatedArchetype"`
	Confidence          float64         `json:"confidence" bson:"confidence"`
	SecondaryArchetype  Archetype       `json:"secondary_archetype,omitempty" bson:"secondaryArchetype,omitempty"`
	Reasoning           string          `json:"reasoning" bson:"reasoning"`
	ArchetypeBreakdown  ArchetypeScores `json:"archetype_breakdown" bson:"archetypeBreakdown"`
	ConsortiumRole      ConsortiumRole  `json:"consortium_role_suggestion" bson:"consortiumRole"`
	KeyCharacteristics  []string        `json:"key_characteristics" bson:"keyCharacteristics"`
	EngagementStrengths []string        `json:"engagement_strengths" bson:"engagementStrengths"`
	RecommendedSteps    []string        `json:"recommended_next_steps" bson:"recommendedSteps"`
}
