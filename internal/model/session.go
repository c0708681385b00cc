package model

// SessionCreateResponse is returned by POST /api/v1/sessions.
type SessionCreateResponse struct {
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
}

// SessionInfo describes one backend chat session.
type SessionInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	MessageCount  int    `json:"message_count"`
	LastMessageAt string `json:"last_message_at,omitempty"`
}

// SessionListResponse is returned by GET /api/v1/sessions.
type SessionListResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// SessionHistoryResponse is returned by GET /api/v1/sessions/{id}/history.
type SessionHistoryResponse struct {
	SessionID    string        `json:"session_id"`
	Messages     []ChatMessage `json:"messages"`
	MessageCount int           `json:"message_count"`
}
