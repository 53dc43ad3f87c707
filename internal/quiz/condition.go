package quiz

import (
	"log"
	"regexp"
	"strings"
)

// Condition expressions are a deliberately small grammar:
//
//	id === 'literal'        equality against the recorded answer
//	id.includes('literal')  membership in an array-typed answer
//	expr || expr            logical OR, split left to right
//	expr && expr            logical AND, split left to right
//
// No parentheses, no precedence beyond splitting on || before &&. An
// expression that matches none of these evaluates to false (hidden by
// default) with a logged diagnostic.

var (
	equalityRe = regexp.MustCompile(`^(\w+)\s*===\s*['"]([^'"]+)['"]$`)
	includesRe = regexp.MustCompile(`^(\w+)\.includes\(['"]([^'"]+)['"]\)$`)
)

// EvaluateCondition resolves a show_if expression against answers recorded
// so far, keyed by question id.
func EvaluateCondition(condition string, answers map[string]any) bool {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return true
	}

	// Split on connectives before matching leaf patterns, otherwise a
	// disjunction's first clause would swallow the whole expression.
	if strings.Contains(condition, "||") {
		for _, part := range strings.Split(condition, "||") {
			if EvaluateCondition(part, answers) {
				return true
			}
		}
		return false
	}
	if strings.Contains(condition, "&&") {
		for _, part := range strings.Split(condition, "&&") {
			if !EvaluateCondition(part, answers) {
				return false
			}
		}
		return true
	}

	if m := equalityRe.FindStringSubmatch(condition); m != nil {
		answer, ok := answers[m[1]]
		if !ok {
			return false
		}
		s, ok := answer.(string)
		return ok && s == m[2]
	}

	if m := includesRe.FindStringSubmatch(condition); m != nil {
		return answerContains(answers[m[1]], m[2])
	}

	log.Printf("quiz: unparseable show_if condition %q, hiding question", condition)
	return false
}

func answerContains(answer any, value string) bool {
	switch v := answer.(type) {
	case []string:
		for _, e := range v {
			if e == value {
				return true
			}
		}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok && s == value {
				return true
			}
		}
	}
	return false
}
