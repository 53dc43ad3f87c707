package quiz

import "opencivics/internal/model"

// Default question-level weights when a question has no entry in
// QuestionWeights. Multi-select carries less signal per selection than a
// single forced choice.
const (
	defaultSingleSelectWeight = 0.5
	defaultMultiSelectWeight  = 0.3
)

// Classification holds the algorithmic read of a score map
type Classification struct {
	Primary    model.Archetype
	Confidence float64
	Secondary  model.Archetype // Empty unless above the materiality threshold
}

// secondaryThreshold is the minimum normalized score for a secondary
// archetype to be reported at all
const secondaryThreshold = 0.2

// Score accumulates archetype weights across responses and normalizes the
// result. Pure function of the question graph and the responses: no I/O,
// no content analysis of free text.
func Score(responses []model.Response) model.ArchetypeScores {
	scores := model.NewArchetypeScores()

	for _, r := range responses {
		q := QuestionByID(r.QuestionID)
		if q == nil {
			continue
		}

		switch q.Type {
		case model.QuestionSingleSelect:
			accumulateOption(scores, q, r.StringValue(), defaultSingleSelectWeight)
		case model.QuestionMultiSelect:
			for _, v := range r.StringValues() {
				accumulateOption(scores, q, v, defaultMultiSelectWeight)
			}
		case model.QuestionText, model.QuestionConversation:
			// Answering at all is the signal here; what was said is the
			// AI classifier's business
			for archetype, bonus := range q.ArchetypeSignals {
				scores[archetype] += bonus
			}
		}
	}

	return normalize(scores)
}

func accumulateOption(scores model.ArchetypeScores, q *model.Question, value string, defaultWeight float64) {
	opt := q.Option(value)
	if opt == nil || opt.Archetype == "" || opt.Weight == 0 {
		return
	}
	questionWeight := defaultWeight
	if weights, ok := QuestionWeights[q.ID]; ok {
		if w, ok := weights[opt.Archetype]; ok {
			questionWeight = w
		}
	}
	scores[opt.Archetype] += opt.Weight * questionWeight
}

// normalize scales the four accumulators to sum to 1.0. A zero total stays
// all zeros: pretending a distribution exists would hide the
// zero-information case from callers.
func normalize(scores model.ArchetypeScores) model.ArchetypeScores {
	total := scores.Total()
	if total == 0 {
		return scores
	}
	for a, s := range scores {
		scores[a] = s / total
	}
	return scores
}

// PrimaryFrom picks the leading archetype from a normalized score map.
// Confidence is the primary's score; the secondary is only reported above
// the materiality threshold. Ties break toward the canonical enumeration
// order, deterministically.
func PrimaryFrom(scores model.ArchetypeScores) Classification {
	var c Classification
	var best, second float64
	for _, a := range model.Archetypes {
		s := scores[a]
		if c.Primary == "" || s > best {
			if c.Primary != "" && s > best {
				second = best
				c.Secondary = c.Primary
			}
			c.Primary = a
			best = s
		} else if c.Secondary == "" || s > second {
			c.Secondary = a
			second = s
		}
	}
	c.Confidence = best
	if second <= secondaryThreshold {
		c.Secondary = ""
	}
	return c
}
