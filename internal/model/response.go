package model

import "time"

// Response is a saved answer to one quiz question. Value holds a string for
// single-select and text questions and a []string (decoded as []any from
// JSON/BSON) for multi-select questions.
type Response struct {
	ID               string       `json:"id" bson:"_id,omitempty"`
	ProfileID        string       `json:"profileId" bson:"profileId"`
	QuestionID       string       `json:"questionId" bson:"questionId"`
	QuestionText     string       `json:"questionText" bson:"questionText"`
	QuestionType     QuestionType `json:"questionType" bson:"questionType"`
	Value            any          `json:"value" bson:"value"`
	RawText          string       `json:"rawText,omitempty" bson:"rawText,omitempty"`
	QuestionOrder    int          `json:"questionOrder" bson:"questionOrder"`
	TimeSpentSeconds int          `json:"timeSpentSeconds,omitempty" bson:"timeSpentSeconds,omitempty"`
	CreatedAt        time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// StringValue returns the answer as a single string, or "" when the value
// is not a string
func (r *Response) StringValue() string {
	s, _ := r.Value.(string)
	return s
}

// StringValues returns the answer as a string slice. Single string values
// come back as a one-element slice; BSON/JSON []any values are coerced
// element by element.
func (r *Response) StringValues() []string {
	switch v := r.Value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
