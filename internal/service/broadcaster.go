package service

// Broadcaster pushes conversation events to connected WebSocket clients
// (interface here avoids an import cycle with the ws package).
type Broadcaster interface {
	BroadcastToConversation(conversationID string, msgType string, payload interface{})
}

// Conversation event types.
const (
	EventQueryPending    = "query_pending"
	EventMessageAppended = "message_appended"
	EventQueryFailed     = "query_failed"
)
