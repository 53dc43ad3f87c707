package quiz

import "opencivics/internal/model"

// QuestionByID returns the question with the given id, or nil
func QuestionByID(id string) *model.Question {
	for i := range Questions {
		if Questions[i].ID == id {
			return &Questions[i]
		}
	}
	return nil
}

// IndexOf returns the position of a question id in the graph, or -1
func IndexOf(id string) int {
	for i := range Questions {
		if Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// NextQuestion walks strictly forward from currentIndex and returns the
// next question whose show_if condition holds against the answers so far.
// Hidden questions are skipped, not terminal: nil means no question remains
// and the quiz is complete. Pass -1 to get the first question.
func NextQuestion(currentIndex int, answers map[string]any) *model.Question {
	for i := currentIndex + 1; i < len(Questions); i++ {
		q := &Questions[i]
		if q.ShowIf == "" || EvaluateCondition(q.ShowIf, answers) {
			return q
		}
	}
	return nil
}

// TotalQuestions is the full graph length, conditional questions included
func TotalQuestions() int {
	return len(Questions)
}

// NumberedQuestions returns the select-type questions shown unconditionally.
// These are the "question N of M" steps a chat client renders with option
// buttons; conditional and open-ended questions sit outside the numbering.
func NumberedQuestions() []model.Question {
	var out []model.Question
	for _, q := range Questions {
		if q.IsSelect() && q.ShowIf == "" {
			out = append(out, q)
		}
	}
	return out
}

// AnswersByID flattens responses into a question-id keyed map for
// condition evaluation
func AnswersByID(responses []model.Response) map[string]any {
	answers := make(map[string]any, len(responses))
	for _, r := range responses {
		answers[r.QuestionID] = r.Value
	}
	return answers
}
