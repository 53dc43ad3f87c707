package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opencivics/internal/model"
)

func TestSuggestConsortiumRolePatronsAlwaysPatron(t *testing.T) {
	role := SuggestConsortiumRole(model.ArchetypePatrons, map[string]any{
		"time_commitment": "casual",
	})
	require.Equal(t, model.RolePatron, role)
}

func TestSuggestConsortiumRoleAlliesByCommitment(t *testing.T) {
	casual := SuggestConsortiumRole(model.ArchetypeAllies, map[string]any{
		"time_commitment": "casual",
	})
	require.Equal(t, model.RoleAlly, casual)

	regular := SuggestConsortiumRole(model.ArchetypeAllies, map[string]any{
		"time_commitment": "regular",
	})
	require.Equal(t, model.RoleCitizen, regular)
}

func TestSuggestConsortiumRoleBuildersByStage(t *testing.T) {
	active := SuggestConsortiumRole(model.ArchetypeInnovators, map[string]any{
		"engagement_stage": "building_something",
		"time_commitment":  "casual",
	})
	require.Equal(t, model.RoleContributor, active)

	passive := SuggestConsortiumRole(model.ArchetypeOrganizers, map[string]any{
		"engagement_stage": "new_curious",
		"time_commitment":  "casual",
	})
	require.Equal(t, model.RoleCitizen, passive)

	committed := SuggestConsortiumRole(model.ArchetypeOrganizers, map[string]any{
		"engagement_stage": "new_curious",
		"time_commitment":  "full_time",
	})
	require.Equal(t, model.RoleContributor, committed)
}

func TestExtractKeyCharacteristics(t *testing.T) {
	characteristics := ExtractKeyCharacteristics(map[string]any{
		"civic_sectors":      []string{"governance", "education", "housing", "economy"},
		"innovation_domains": []any{"technology"},
		"specific_skills":    []string{"software_development"},
		"location":           "Lisbon",
		"time_commitment":    "regular",
	})

	require.Equal(t, []string{
		"Interested in governance, education, housing",
		"Focus on technology",
		"Skills in software_development",
		"Based in Lisbon",
		"regular time commitment",
	}, characteristics)
}

func TestExtractKeyCharacteristicsSkipsWithheldLocation(t *testing.T) {
	characteristics := ExtractKeyCharacteristics(map[string]any{
		"location": "prefer not to say",
	})
	require.Empty(t, characteristics)
}
