package model

// QuestionType defines how a quiz question is answered
type QuestionType string

const (
	QuestionSingleSelect QuestionType = "single_select"
	QuestionMultiSelect  QuestionType = "multi_select"
	QuestionText         QuestionType = "text"         // Short free text
	QuestionConversation QuestionType = "conversation" // Open chat answer
)

// QuestionPurpose tags why a question is asked
type QuestionPurpose string

const (
	PurposeArchetypeDetection QuestionPurpose = "archetype_detection"
	PurposeInterestMapping    QuestionPurpose = "interest_mapping"
	PurposeEngagementPlanning QuestionPurpose = "engagement_planning"
	PurposeProfileEnrichment  QuestionPurpose = "profile_enrichment"
)

// QuestionOption is one selectable answer for a select-type question
type QuestionOption struct {
	Value       string    `json:"value"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Archetype   Archetype `json:"archetype,omitempty"` // Empty means no archetype signal
	Weight      float64   `json:"weight,omitempty"`
	Icon        string    `json:"icon,omitempty"`
}

// QuestionValidation holds selection/length bounds for an answer
type QuestionValidation struct {
	MinSelections int `json:"minSelections,omitempty"`
	MaxSelections int `json:"maxSelections,omitempty"`
	MinLength     int `json:"minLength,omitempty"`
	MaxLength     int `json:"maxLength,omitempty"`
}

// Question is one entry in the static onboarding question graph. The graph
// is defined at process start and never mutated afterwards.
type Question struct {
	ID          string          `json:"id"`
	Type        QuestionType    `json:"type"`
	Text        string          `json:"text"`
	Description string          `json:"description,omitempty"`
	Purpose     QuestionPurpose `json:"purpose"`
	Required    bool            `json:"required"`

	// ShowIf is a flat boolean expression over prior answers, e.g.
	// "resource_contribution_primary === 'hybrid_multiple'". Empty means
	// always shown.
	ShowIf string `json:"showIf,omitempty"`

	Validation *QuestionValidation `json:"validation,omitempty"`
	Options    []QuestionOption    `json:"options,omitempty"`

	// ArchetypeSignals is a flat per-archetype bonus applied when an
	// open-ended question is answered at all. Content analysis is the
	// AI classifier's job, not the scorer's.
	ArchetypeSignals map[Archetype]float64 `json:"archetypeSignals,omitempty"`
}

// Option returns the option with the given value, or nil
func (q *Question) Option(value string) *QuestionOption {
	for i := range q.Options {
		if q.Options[i].Value == value {
			return &q.Options[i]
		}
	}
	return nil
}

// IsSelect reports whether the question is answered by picking options
func (q *Question) IsSelect() bool {
	return q.Type == QuestionSingleSelect || q.Type == QuestionMultiSelect
}
