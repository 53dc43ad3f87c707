package service

import (
	"fmt"
	"strings"

	"opencivics/internal/model"
)

// SuggestConsortiumRole maps a classified archetype onto the consortium
// role ladder, using time commitment and engagement stage to decide how
// deep into the ladder the person should land.
func SuggestConsortiumRole(archetype model.Archetype, answers map[string]any) model.ConsortiumRole {
	commitment := stringAnswer(answers, "time_commitment")
	stage := stringAnswer(answers, "engagement_stage")

	switch archetype {
	case model.ArchetypePatrons:
		return model.RolePatron
	case model.ArchetypeAllies:
		if commitment == "regular" || commitment == "dedicated" || commitment == "full_time" {
			return model.RoleCitizen
		}
		return model.RoleAlly
	case model.ArchetypeInnovators, model.ArchetypeOrganizers:
		active := stage == "building_something" || stage == "organizing_locally" || stage == "experienced_looking"
		committed := commitment == "dedicated" || commitment == "full_time"
		if active || committed {
			return model.RoleContributor
		}
		return model.RoleCitizen
	}
	return model.RoleAlly
}

// ExtractKeyCharacteristics distills quiz answers into short facts used
// in analysis output and profile summaries.
func ExtractKeyCharacteristics(answers map[string]any) []string {
	var characteristics []string

	if sectors := sliceAnswer(answers, "civic_sectors"); len(sectors) > 0 {
		top := sectors
		if len(top) > 3 {
			top = top[:3]
		}
		characteristics = append(characteristics, fmt.Sprintf("Interested in %s", strings.Join(top, ", ")))
	}
	if domains := sliceAnswer(answers, "innovation_domains"); len(domains) > 0 {
		characteristics = append(characteristics, fmt.Sprintf("Focus on %s", strings.Join(domains, ", ")))
	}
	if skills := sliceAnswer(answers, "specific_skills"); len(skills) > 0 {
		top := skills
		if len(top) > 3 {
			top = top[:3]
		}
		characteristics = append(characteristics, fmt.Sprintf("Skills in %s", strings.Join(top, ", ")))
	}
	if location := stringAnswer(answers, "location"); location != "" && location != "prefer not to say" {
		characteristics = append(characteristics, fmt.Sprintf("Based in %s", location))
	}
	if commitment := stringAnswer(answers, "time_commitment"); commitment != "" {
		characteristics = append(characteristics, fmt.Sprintf("%s time commitment", commitment))
	}

	return characteristics
}

// ArchetypeStrengths lists the engagement strengths attributed to each
// archetype in analysis output.
var ArchetypeStrengths = map[model.Archetype][]string{
	model.ArchetypeAllies: {
		"Amplifying civic initiatives through networks",
		"Building awareness in their communities",
		"Connecting people to opportunities",
	},
	model.ArchetypeInnovators: {
		"Building tools and systems for civic impact",
		"Prototyping new approaches to old problems",
		"Bringing technical depth to civic projects",
	},
	model.ArchetypeOrganizers: {
		"Mobilizing people around shared goals",
		"Facilitating collaboration across groups",
		"Sustaining momentum in local initiatives",
	},
	model.ArchetypePatrons: {
		"Directing resources where they matter most",
		"Enabling long-term civic infrastructure",
		"Lending credibility to emerging efforts",
	},
}

// RecommendedNextSteps lists the default onboarding steps per archetype.
var RecommendedNextSteps = map[model.Archetype][]string{
	model.ArchetypeAllies: {
		"Join the community newsletter to stay informed",
		"Share an initiative you care about with your network",
		"Attend an upcoming community call",
	},
	model.ArchetypeInnovators: {
		"Browse open civic tech projects looking for contributors",
		"Join a working group matching your skills",
		"Prototype a solution for a problem in your community",
	},
	model.ArchetypeOrganizers: {
		"Connect with organizers in your region",
		"Host or join a local civic gathering",
		"Explore the facilitation resource library",
	},
	model.ArchetypePatrons: {
		"Review the portfolio of active civic initiatives",
		"Connect with the partnerships team",
		"Explore matched-funding opportunities",
	},
}

func stringAnswer(answers map[string]any, questionID string) string {
	v, ok := answers[questionID]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func sliceAnswer(answers map[string]any, questionID string) []string {
	v, ok := answers[questionID]
	if !ok {
		return nil
	}
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if vals == "" {
			return nil
		}
		return []string{vals}
	}
	return nil
}
