package models

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message      string `json:"message"`
	VisitorID    string `json:"visitor_id"`
	VisitorName  string `json:"visitor_name,omitempty"`
	TargetUserID string `json:"target_user_id,omitempty"`
}
