package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"voidchat/internal/model"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrLastConversation     = errors.New("cannot delete the last conversation")
	ErrQueryInFlight        = errors.New("a query is already pending for this conversation")
)

// Greeting opens every new conversation.
const Greeting = "Hi! I'm Void — ask me anything!"

const titleLimit = 30

// Conversation is an ordered message sequence tied to a backend session.
type Conversation struct {
	ID           string              `json:"id"`
	SessionID    string              `json:"session_id,omitempty"`
	Title        string              `json:"title"`
	Messages     []model.ChatMessage `json:"messages"`
	MessageCount int                 `json:"message_count"`
	LastActivity time.Time           `json:"last_activity,omitempty"`
}

// Store keeps the conversations for one browser session. Messages are
// immutable once appended; the store only grows lists, switches the active
// id, and deletes whole conversations.
type Store struct {
	mu       sync.Mutex
	order    []string
	convs    map[string]*Conversation
	active   string
	inFlight map[string]bool
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{
		convs:    make(map[string]*Conversation),
		inFlight: make(map[string]bool),
	}
}

// Create adds a conversation bound to a backend session, opens it with the
// greeting, and makes it active.
func (s *Store) Create(sessionID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &Conversation{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Title:     "New Chat",
		Messages: []model.ChatMessage{{
			ID:        uuid.NewString(),
			Role:      model.RoleAssistant,
			Content:   Greeting,
			Timestamp: time.Now(),
		}},
		LastActivity: time.Now(),
	}
	conv.MessageCount = len(conv.Messages)

	s.order = append(s.order, conv.ID)
	s.convs[conv.ID] = conv
	s.active = conv.ID
	return snapshot(conv)
}

// Restore adds an existing conversation (from a session list or the
// archive) without changing the active selection unless none is set.
func (s *Store) Restore(conv Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.convs[conv.ID]; !exists {
		s.order = append(s.order, conv.ID)
	}
	c := conv
	c.MessageCount = len(c.Messages)
	s.convs[conv.ID] = &c
	if s.active == "" {
		s.active = conv.ID
	}
}

// Select makes a conversation active.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return ErrConversationNotFound
	}
	s.active = id
	return nil
}

// ActiveID returns the id of the active conversation, or "".
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Get returns a copy of one conversation.
func (s *Store) Get(id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return snapshot(conv), nil
}

// List returns copies of all conversations in creation order.
func (s *Store) List() []*Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, snapshot(s.convs[id]))
	}
	return out
}

// Append adds a message to a conversation. The first user message retitles
// a fresh conversation with a truncated preview of its text.
func (s *Store) Append(id string, msg model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok {
		return ErrConversationNotFound
	}

	if msg.Role == model.RoleUser && len(conv.Messages) <= 1 {
		conv.Title = truncateTitle(msg.Content)
	}

	conv.Messages = append(conv.Messages, msg)
	conv.MessageCount = len(conv.Messages)
	conv.LastActivity = time.Now()
	return nil
}

// AppendIfActive appends only when the conversation is still the active
// one, reporting whether the message landed. Late responses for a
// conversation the user navigated away from are discarded here.
func (s *Store) AppendIfActive(id string, msg model.ChatMessage) (bool, error) {
	s.mu.Lock()
	active := s.active == id
	s.mu.Unlock()

	if !active {
		return false, nil
	}
	return true, s.Append(id, msg)
}

// ReplaceMessages swaps in a rebuilt transcript, as history loading does
// after replaying stored responses through the classifier.
func (s *Store) ReplaceMessages(id string, msgs []model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok {
		return ErrConversationNotFound
	}
	conv.Messages = append([]model.ChatMessage(nil), msgs...)
	conv.MessageCount = len(conv.Messages)
	return nil
}

// Delete removes a conversation. Removing the last remaining one is
// forbidden so the UI always has somewhere to land.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return ErrConversationNotFound
	}
	if len(s.order) == 1 {
		return ErrLastConversation
	}

	delete(s.convs, id)
	delete(s.inFlight, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == id {
		s.active = s.order[0]
	}
	return nil
}

// BeginSend marks a conversation as having a query in flight. A second
// send for the same conversation is rejected until EndSend; other
// conversations are independent.
func (s *Store) BeginSend(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return ErrConversationNotFound
	}
	if s.inFlight[id] {
		return ErrQueryInFlight
	}
	s.inFlight[id] = true
	return nil
}

// EndSend clears the in-flight mark.
func (s *Store) EndSend(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return text
}

func snapshot(conv *Conversation) *Conversation {
	c := *conv
	c.Messages = append([]model.ChatMessage(nil), conv.Messages...)
	return &c
}
