package models

// ChatResponse is the body returned by POST /api/v1/chat.
type ChatResponse struct {
	Response    string  `json:"response"`
	QueryTimeMs float64 `json:"query_time_ms"`
}

// ChatHistoryResponse is the body returned by GET /api/v1/history.
type ChatHistoryResponse struct {
	History []ChatHistoryItem `json:"history"`
	Count   int               `json:"count"`
}
