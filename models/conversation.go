package models

import "time"

// Role identifies the speaker of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCall is a structured function invocation extracted by the model.
type ToolCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Turn is one message in a conversation, tagged with its speaker role.
type Turn struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ChatRequest represents an incoming chat message
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse represents the assistant's reply for one processed turn
type ChatResponse struct {
	Reply   string         `json:"reply"`
	State   DialogueState  `json:"state"`
	Booking *BookingRecord `json:"booking,omitempty"`
}
