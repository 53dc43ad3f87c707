package model

import "time"

// MessageRole tags who produced a conversation message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageButton is a suggested action rendered under an assistant message
type MessageButton struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// ChatMessage is one turn in an onboarding conversation. Buttons and
// InputField only ever appear on assistant messages.
type ChatMessage struct {
	Role       MessageRole     `json:"role"`
	Content    string          `json:"content"`
	Buttons    []MessageButton `json:"buttons,omitempty"`
	InputField string          `json:"inputField,omitempty"` // e.g. "name", "email"
	Timestamp  time.Time       `json:"timestamp,omitempty"`
}

// ConversationMessage is the durable record of one stored chat turn
type ConversationMessage struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	ProfileID string      `json:"profileId" bson:"profileId"`
	Role      MessageRole `json:"role" bson:"role"`
	Content   string      `json:"content" bson:"content"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}
