package models

import "time"

// SenderUser marks a transcript row written by the visitor.
const SenderUser = "user"

// ChatMessage is one transcript row to be persisted: the visitor's message
// together with the generated response.
type ChatMessage struct {
	ID           string    `json:"id" db:"id"`
	Message      string    `json:"message" db:"message"`
	Sender       string    `json:"sender" db:"sender"`
	Response     string    `json:"response" db:"response"`
	VisitorID    string    `json:"visitor_id" db:"visitor_id"`
	VisitorName  string    `json:"visitor_name,omitempty" db:"visitor_name"`
	TargetUserID string    `json:"target_user_id,omitempty" db:"target_user_id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}

// ChatHistoryItem is a transcript row as returned to callers.
type ChatHistoryItem struct {
	ID           string    `json:"id" db:"id"`
	Message      string    `json:"message" db:"message"`
	Sender       string    `json:"sender" db:"sender"`
	Response     string    `json:"response,omitempty" db:"response"`
	VisitorID    string    `json:"visitor_id" db:"visitor_id"`
	VisitorName  string    `json:"visitor_name,omitempty" db:"visitor_name"`
	TargetUserID string    `json:"target_user_id,omitempty" db:"target_user_id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}

// PromptContext is the assembled input for response generation. None of the
// fields are optional; absent inputs are rendered as their documented
// placeholders instead.
type PromptContext struct {
	PersonaName  string
	ProfileBlock string
	HistoryBlock string
	ContextBlock string
}
