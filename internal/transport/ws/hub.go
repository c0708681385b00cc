package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgQueryPending    MessageType = "query_pending"
	MsgMessageAppended MessageType = "message_appended"
	MsgQueryFailed     MessageType = "query_failed"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket subscriptions per conversation so the chat page
// can render loading state and new messages without polling.
type Hub struct {
	// conversation -> connections
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one subscribed WebSocket client
type Connection struct {
	ConversationID string
	Send           chan []byte
	Hub            *Hub
}

// BroadcastMessage is a message destined for one conversation's subscribers
type BroadcastMessage struct {
	ConversationID string
	Message        *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.ConversationID] == nil {
				h.conns[conn.ConversationID] = make(map[*Connection]bool)
			}
			h.conns[conn.ConversationID][conn] = true
			log.Printf("Client subscribed to conversation %s", conn.ConversationID)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if subs, ok := h.conns[conn.ConversationID]; ok {
				if subs[conn] {
					delete(subs, conn)
					close(conn.Send)
					log.Printf("Client unsubscribed from conversation %s", conn.ConversationID)
				}
				if len(subs) == 0 {
					delete(h.conns, conn.ConversationID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.ConversationID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToConversation sends a message to a conversation's subscribers
// (implements service.Broadcaster)
func (h *Hub) BroadcastToConversation(conversationID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ConversationID: conversationID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
