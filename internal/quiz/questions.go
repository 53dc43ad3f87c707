package quiz

import "opencivics/internal/model"

// Questions is the ordered onboarding question graph. Process-wide
// immutable shared state: defined here, read everywhere, mutated nowhere.
var Questions = []model.Question{
	// Introduction & context
	{
		ID:       "intro_welcome",
		Type:     model.QuestionConversation,
		Text:     "Welcome to OpenCivics! Before we begin, what should we call you?",
		Purpose:  model.PurposeProfileEnrichment,
		Required: false,
	},
	{
		ID:       "intro_motivation",
		Type:     model.QuestionConversation,
		Text:     "What brings you to OpenCivics today? What are you hoping to explore or achieve?",
		Purpose:  model.PurposeArchetypeDetection,
		Required: true,
		ArchetypeSignals: map[model.Archetype]float64{
			model.ArchetypeAllies:     0.3,
			model.ArchetypeInnovators: 0.3,
			model.ArchetypeOrganizers: 0.3,
			model.ArchetypePatrons:    0.3,
		},
	},

	// Archetype detection (primary signals)
	{
		ID:          "resource_contribution_primary",
		Type:        model.QuestionSingleSelect,
		Text:        "If you were to get involved with OpenCivics, what resource would you most naturally contribute?",
		Description: "This helps us understand how you might best participate in the OpenCivics ecosystem.",
		Purpose:     model.PurposeArchetypeDetection,
		Required:    true,
		Options: []model.QuestionOption{
			{Value: "time_learning", Label: "Time to learn and explore civic innovation", Archetype: model.ArchetypeAllies, Weight: 1.0},
			{Value: "time_organizing", Label: "Time to coordinate, facilitate, and bring people together", Archetype: model.ArchetypeOrganizers, Weight: 1.0},
			{Value: "skills_building", Label: "Skills and expertise to build tools, systems, or infrastructure", Archetype: model.ArchetypeInnovators, Weight: 1.0},
			{Value: "capital_funding", Label: "Financial resources to fund civic innovation and infrastructure", Archetype: model.ArchetypePatrons, Weight: 1.0},
			// Triggers the multi-select follow-up, carries no signal itself
			{Value: "hybrid_multiple", Label: "A combination of the above", Weight: 0.0},
		},
	},
	{
		ID:       "resource_contribution_multiple",
		Type:     model.QuestionMultiSelect,
		Text:     "Which of these resources can you contribute? (Select all that apply)",
		Purpose:  model.PurposeArchetypeDetection,
		Required: true,
		ShowIf:   "resource_contribution_primary === 'hybrid_multiple'",
		Validation: &model.QuestionValidation{
			MinSelections: 2,
			MaxSelections: 4,
		},
		Options: []model.QuestionOption{
			{Value: "time_learning", Label: "Time to learn and explore", Archetype: model.ArchetypeAllies, Weight: 0.7},
			{Value: "time_organizing", Label: "Time to organize and facilitate", Archetype: model.ArchetypeOrganizers, Weight: 0.7},
			{Value: "skills_technical", Label: "Technical skills (coding, design, etc.)", Archetype: model.ArchetypeInnovators, Weight: 0.7},
			{Value: "skills_facilitation", Label: "Facilitation and coordination skills", Archetype: model.ArchetypeOrganizers, Weight: 0.5},
			{Value: "capital_funding", Label: "Financial resources", Archetype: model.ArchetypePatrons, Weight: 0.7},
			{Value: "networks", Label: "Networks and connections", Archetype: model.ArchetypePatrons, Weight: 0.4},
		},
	},
	{
		ID:       "participation_mode",
		Type:     model.QuestionSingleSelect,
		Text:     "How do you see yourself participating in open civic innovation?",
		Purpose:  model.PurposeArchetypeDetection,
		Required: true,
		Options: []model.QuestionOption{
			{Value: "learning", Label: "Learning & exploring — I want to understand these ideas and frameworks", Archetype: model.ArchetypeAllies, Weight: 1.0},
			{Value: "building", Label: "Building & prototyping — I want to create tools, systems, or protocols", Archetype: model.ArchetypeInnovators, Weight: 1.0},
			{Value: "organizing", Label: "Organizing & weaving — I want to facilitate, coordinate, and bring people together", Archetype: model.ArchetypeOrganizers, Weight: 1.0},
			{Value: "funding", Label: "Funding & resourcing — I want to support civic innovation through capital", Archetype: model.ArchetypePatrons, Weight: 1.0},
			{Value: "exploring", Label: "Still exploring — I'm not sure yet", Archetype: model.ArchetypeAllies, Weight: 0.8},
		},
	},
	{
		ID:       "engagement_stage",
		Type:     model.QuestionSingleSelect,
		Text:     "Where are you in your civic innovation journey?",
		Purpose:  model.PurposeArchetypeDetection,
		Required: true,
		Options: []model.QuestionOption{
			{Value: "new_curious", Label: "Brand new — Just discovered open civics and curious to learn more", Archetype: model.ArchetypeAllies, Weight: 0.6},
			{Value: "learning_exploring", Label: "Learning — Actively exploring frameworks and trying to understand the landscape", Archetype: model.ArchetypeAllies, Weight: 0.8},
			{Value: "building_something", Label: "Building — Already working on a civic project, tool, or system", Archetype: model.ArchetypeInnovators, Weight: 0.9},
			{Value: "organizing_locally", Label: "Organizing — Leading or facilitating civic work in my community", Archetype: model.ArchetypeOrganizers, Weight: 0.9},
			{Value: "funding_supporting", Label: "Funding — Looking to support civic innovation with resources", Archetype: model.ArchetypePatrons, Weight: 0.9},
			{Value: "experienced_looking", Label: "Experienced — I've been doing this work and looking for collaboration opportunities", Weight: 0.0},
		},
	},

	// Interest mapping
	{
		ID:       "civic_sectors",
		Type:     model.QuestionMultiSelect,
		Text:     "Which civic sectors are you most interested in? (Select 1-5)",
		Purpose:  model.PurposeInterestMapping,
		Required: true,
		Validation: &model.QuestionValidation{
			MinSelections: 1,
			MaxSelections: 5,
		},
		Options: []model.QuestionOption{
			{Value: "governance", Label: "Governance & Political Systems", Description: "Decision-making, policy, participatory governance"},
			{Value: "civic_engagement", Label: "Civic Engagement & Participation", Description: "Assemblies, dialogue, collective action"},
			{Value: "justice", Label: "Justice & Legal Systems", Description: "Fairness, accountability, restorative justice"},
			{Value: "education", Label: "Educational & Learning Systems", Description: "Lifelong learning, civic literacy, open knowledge"},
			{Value: "environment", Label: "Environmental & Sustainability", Description: "Regeneration, ecosystems, biodiversity, stewardship"},
			{Value: "economy", Label: "Economic & Resource Sharing", Description: "Cooperation, mutual aid, shared wealth"},
			{Value: "health", Label: "Health & Well-Being", Description: "Physical, mental, social health and care"},
			{Value: "transportation", Label: "Transportation & Mobility", Description: "Equitable, sustainable movement systems"},
			{Value: "culture", Label: "Cultural & Creative Systems", Description: "Art, storytelling, ritual, shared meaning"},
			{Value: "security", Label: "Security & Safety", Description: "Care, preparedness, mutual responsibility"},
			{Value: "technology", Label: "Digital & Technological Systems", Description: "Ethical tech, digital infrastructure"},
			{Value: "media", Label: "Information & Media Systems", Description: "Open journalism, collective sensemaking"},
		},
	},
	{
		ID:       "innovation_domains",
		Type:     model.QuestionMultiSelect,
		Text:     "Which innovation approaches resonate with you? (Select up to 3)",
		Purpose:  model.PurposeInterestMapping,
		Required: false,
		ShowIf:   "resource_contribution_primary === 'skills_building' || resource_contribution_primary === 'time_organizing' || participation_mode === 'building' || participation_mode === 'organizing'",
		Validation: &model.QuestionValidation{
			MinSelections: 1,
			MaxSelections: 3,
		},
		Options: []model.QuestionOption{
			{Value: "network_governance", Label: "Network Governance", Description: "Decentralized coordination through shared principles"},
			{Value: "bioregional", Label: "Bioregional Coordination", Description: "Place-based governance aligned with ecosystems"},
			{Value: "open_protocols", Label: "Open Protocols", Description: "Shared standards for interoperability"},
			{Value: "digital_infrastructure", Label: "Digital Public Infrastructure", Description: "Commons-based digital systems (identity, data, payments)"},
			{Value: "knowledge_commoning", Label: "Knowledge Commoning", Description: "Collective stewardship of information and research"},
			{Value: "capital_allocation", Label: "Capital Allocation", Description: "Redesigning value flows for regeneration"},
			{Value: "collective_intelligence", Label: "Collective Intelligence", Description: "Group thinking, learning, and decision-making"},
		},
	},

	// Skills & capacity
	{
		ID:       "specific_skills",
		Type:     model.QuestionMultiSelect,
		Text:     "What specific skills or expertise do you bring?",
		Purpose:  model.PurposeProfileEnrichment,
		Required: false,
		ShowIf:   "resource_contribution_primary === 'skills_building' || resource_contribution_primary === 'time_organizing' || resource_contribution_multiple.includes('skills_technical') || resource_contribution_multiple.includes('skills_facilitation')",
		Options: []model.QuestionOption{
			{Value: "software_dev", Label: "Software Development"},
			{Value: "systems_design", Label: "Systems & Protocol Design"},
			{Value: "data_research", Label: "Data Science & Research"},
			{Value: "ux_design", Label: "UX/UI Design"},
			{Value: "product_management", Label: "Product Management"},
			{Value: "facilitation", Label: "Facilitation & Group Process"},
			{Value: "community_building", Label: "Community Organizing"},
			{Value: "event_coordination", Label: "Event Planning & Coordination"},
			{Value: "participatory_governance", Label: "Participatory Governance"},
			{Value: "writing_comms", Label: "Writing & Communication"},
			{Value: "teaching", Label: "Teaching & Education"},
			{Value: "legal_policy", Label: "Legal & Policy"},
			{Value: "finance_ops", Label: "Finance & Operations"},
			{Value: "other", Label: "Other (tell us more!)"},
		},
	},
	{
		ID:       "time_commitment",
		Type:     model.QuestionSingleSelect,
		Text:     "How much time can you dedicate to civic innovation?",
		Purpose:  model.PurposeEngagementPlanning,
		Required: true,
		Options: []model.QuestionOption{
			{Value: "casual", Label: "Casual — A few hours per month", Description: "Occasional learning, events, and exploration"},
			{Value: "regular", Label: "Regular — A few hours per week", Description: "Consistent participation in projects or organizing"},
			{Value: "dedicated", Label: "Dedicated — Multiple hours per week", Description: "Deep engagement in building, organizing, or supporting"},
			{Value: "full_time", Label: "Full-time — This is (or could be) my primary work", Description: "Professional or near-professional involvement"},
		},
	},

	// Context & connection
	{
		ID:          "location",
		Type:        model.QuestionText,
		Text:        `Where are you located? (City, Region, or "Prefer not to say")`,
		Description: "Helps connect you with local organizers and bioregional initiatives",
		Purpose:     model.PurposeProfileEnrichment,
		Required:    false,
	},
	{
		ID:       "experience_background",
		Type:     model.QuestionConversation,
		Text:     "Tell us briefly about your background or experience with civic organizing, community work, or systems innovation. (Optional but helps us understand you better!)",
		Purpose:  model.PurposeProfileEnrichment,
		Required: false,
	},
	{
		ID:       "current_work",
		Type:     model.QuestionConversation,
		Text:     "Are you currently working on any civic projects, initiatives, or funding strategies? Tell us about it!",
		Purpose:  model.PurposeProfileEnrichment,
		Required: false,
		ShowIf:   "engagement_stage === 'building_something' || engagement_stage === 'organizing_locally' || engagement_stage === 'funding_supporting' || engagement_stage === 'experienced_looking'",
	},
}

// QuestionWeights gives the per-question, per-archetype scoring weight.
// Questions absent from this table fall back to the type defaults in
// the scorer.
var QuestionWeights = map[string]map[model.Archetype]float64{
	"resource_contribution_primary": {
		model.ArchetypeAllies:     1.0,
		model.ArchetypeInnovators: 1.0,
		model.ArchetypeOrganizers: 1.0,
		model.ArchetypePatrons:    1.0,
	},
	"participation_mode": {
		model.ArchetypeAllies:     1.0,
		model.ArchetypeInnovators: 1.0,
		model.ArchetypeOrganizers: 1.0,
		model.ArchetypePatrons:    1.0,
	},
	"engagement_stage": {
		model.ArchetypeAllies:     0.8,
		model.ArchetypeInnovators: 0.8,
		model.ArchetypeOrganizers: 0.8,
		model.ArchetypePatrons:    0.8,
	},
	"time_commitment": {
		model.ArchetypeAllies:     0.2,
		model.ArchetypeInnovators: 0.2,
		model.ArchetypeOrganizers: 0.2,
		model.ArchetypePatrons:    0.2,
	},
}
