package quiz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateConditionEquality(t *testing.T) {
	answers := map[string]any{"resource_contribution_primary": "hybrid_multiple"}

	require.True(t, EvaluateCondition("resource_contribution_primary === 'hybrid_multiple'", answers))
	require.False(t, EvaluateCondition("resource_contribution_primary === 'time_learning'", answers))
	require.False(t, EvaluateCondition("unanswered_question === 'anything'", answers))
}

func TestEvaluateConditionIncludes(t *testing.T) {
	answers := map[string]any{
		"resource_contribution_multiple": []string{"skills_technical", "networks"},
	}

	require.True(t, EvaluateCondition("resource_contribution_multiple.includes('skills_technical')", answers))
	require.False(t, EvaluateCondition("resource_contribution_multiple.includes('capital_funding')", answers))
}

func TestEvaluateConditionIncludesBSONDecodedSlice(t *testing.T) {
	// Values read back from the durable store decode as []any
	answers := map[string]any{
		"resource_contribution_multiple": []any{"skills_technical", "networks"},
	}

	require.True(t, EvaluateCondition("resource_contribution_multiple.includes('networks')", answers))
}

func TestEvaluateConditionIncludesRejectsScalar(t *testing.T) {
	answers := map[string]any{"participation_mode": "building"}

	require.False(t, EvaluateCondition("participation_mode.includes('building')", answers))
}

func TestEvaluateConditionOr(t *testing.T) {
	answers := map[string]any{"participation_mode": "organizing"}

	cond := "resource_contribution_primary === 'skills_building' || participation_mode === 'organizing'"
	require.True(t, EvaluateCondition(cond, answers))

	cond = "resource_contribution_primary === 'skills_building' || participation_mode === 'funding'"
	require.False(t, EvaluateCondition(cond, answers))
}

func TestEvaluateConditionAnd(t *testing.T) {
	answers := map[string]any{
		"participation_mode": "building",
		"engagement_stage":   "building_something",
	}

	require.True(t, EvaluateCondition("participation_mode === 'building' && engagement_stage === 'building_something'", answers))
	require.False(t, EvaluateCondition("participation_mode === 'building' && engagement_stage === 'new_curious'", answers))
}

func TestEvaluateConditionMixedOrAcrossForms(t *testing.T) {
	answers := map[string]any{
		"resource_contribution_multiple": []string{"skills_facilitation"},
	}

	cond := "resource_contribution_primary === 'skills_building' || resource_contribution_multiple.includes('skills_facilitation')"
	require.True(t, EvaluateCondition(cond, answers))
}

func TestEvaluateConditionUnparseableFailsClosed(t *testing.T) {
	answers := map[string]any{"participation_mode": "building"}

	require.False(t, EvaluateCondition("participation_mode == 'building'", answers))
	require.False(t, EvaluateCondition("(participation_mode === 'building')", answers))
	require.False(t, EvaluateCondition("garbage", answers))
}
