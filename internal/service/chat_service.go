package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"voidchat/internal/chat"
	"voidchat/internal/model"
	"voidchat/internal/render"
	"voidchat/internal/repository"
)

const errorReplyContent = "Sorry, I encountered an error processing your request. Please try again."

const defaultMaxResults = 100

// ChatService orchestrates a send: it validates input, gates on
// authentication, forwards the query to the backend, classifies the
// response into a renderable message and appends it to the conversation.
// The conversation store is owned by the caller (one per browser session)
// and passed in explicitly.
type ChatService struct {
	backend     *BackendClient
	sessions    *SessionService
	transcripts repository.TranscriptRepo
	broadcaster Broadcaster
}

// NewChatService creates the chat orchestrator.
func NewChatService(backend *BackendClient, sessions *SessionService, transcripts repository.TranscriptRepo) *ChatService {
	return &ChatService{
		backend:     backend,
		sessions:    sessions,
		transcripts: transcripts,
	}
}

// SetBroadcaster injects the WebSocket hub.
func (s *ChatService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// NewConversation provisions a backend session and opens a conversation
// on it. Requires authentication.
func (s *ChatService) NewConversation(ctx context.Context, store *chat.Store, sctx model.SessionContext) (*chat.Conversation, error) {
	if !sctx.Authenticated() {
		return nil, ErrAuthentication
	}

	created, err := s.sessions.Create(ctx, sctx.Token)
	if err != nil {
		return nil, err
	}
	return store.Create(created.SessionID), nil
}

// DeleteConversation removes a conversation and its archived transcript.
func (s *ChatService) DeleteConversation(ctx context.Context, store *chat.Store, sctx model.SessionContext, convID string) error {
	if !sctx.Authenticated() {
		return ErrAuthentication
	}
	if err := store.Delete(convID); err != nil {
		return err
	}
	if s.transcripts != nil {
		if err := s.transcripts.DeleteConversation(ctx, convID); err != nil {
			log.Printf("[Chat] Failed to delete archived transcript for %s: %v", convID, err)
		}
	}
	return nil
}

// Send runs the full query flow for one user message and returns the
// assistant message that was appended. On failure an authenticated
// conversation receives a synthetic error reply; unauthenticated callers
// get the error with no transcript change.
func (s *ChatService) Send(ctx context.Context, store *chat.Store, sctx model.SessionContext, convID, text string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	if !sctx.Authenticated() {
		return nil, ErrAuthentication
	}

	if err := store.BeginSend(convID); err != nil {
		return nil, err
	}
	defer store.EndSend(convID)

	conv, err := store.Get(convID)
	if err != nil {
		return nil, err
	}

	userMsg := render.UserMessage(text)
	if err := store.Append(convID, userMsg); err != nil {
		return nil, err
	}
	s.broadcast(convID, EventQueryPending, map[string]string{"query": text})
	s.archive(ctx, convID, conv.SessionID, sctx, userMsg)

	assistant, err := s.query(ctx, store, sctx, conv, text)
	if err != nil {
		s.broadcast(convID, EventQueryFailed, map[string]string{"message": err.Error()})
		errorMsg := model.ChatMessage{
			ID:        uuid.NewString(),
			Role:      model.RoleAssistant,
			Content:   errorReplyContent,
			Timestamp: time.Now(),
		}
		// Same stale check as the success path: a failure for a
		// conversation the user left should not mutate it either.
		if _, appendErr := store.AppendIfActive(convID, errorMsg); appendErr != nil {
			log.Printf("[Chat] Failed to append error reply: %v", appendErr)
		}
		return nil, err
	}

	return assistant, nil
}

func (s *ChatService) query(ctx context.Context, store *chat.Store, sctx model.SessionContext, conv *chat.Conversation, text string) (*model.ChatMessage, error) {
	sessionID := conv.SessionID
	if sessionID == "" {
		var err error
		sessionID, err = s.sessions.GetOrCreate(ctx, sctx)
		if err != nil {
			return nil, err
		}
	}

	resp, err := s.backend.Query(ctx, &model.QueryRequest{
		Query:          text,
		SessionID:      sessionID,
		IncludeContext: true,
		MaxResults:     defaultMaxResults,
	}, sctx.Token)
	if err != nil {
		return nil, err
	}

	assistant := render.Classify(resp, text)

	// Discard if the user switched conversations while the query was in
	// flight; the backend still has the answer in its history.
	landed, err := store.AppendIfActive(conv.ID, assistant)
	if err != nil {
		return nil, err
	}
	if !landed {
		log.Printf("[Chat] Dropping stale response for conversation %s", conv.ID)
		return &assistant, nil
	}

	s.archive(ctx, conv.ID, sessionID, sctx, assistant)
	s.sessions.InvalidateAfterSend(ctx, sctx, sessionID)
	s.broadcast(conv.ID, EventMessageAppended, assistant)
	return &assistant, nil
}

// LoadHistory rebuilds a conversation's messages from the backend
// transcript, replaying each stored response through the classifier with
// the preceding user message as the query. Falls back to the Mongo archive
// when the backend is unreachable.
func (s *ChatService) LoadHistory(ctx context.Context, store *chat.Store, sctx model.SessionContext, convID string) error {
	if !sctx.Authenticated() {
		return ErrAuthentication
	}

	conv, err := store.Get(convID)
	if err != nil {
		return err
	}
	if conv.SessionID == "" {
		return nil
	}

	history, err := s.sessions.History(ctx, conv.SessionID, sctx.Token)
	if err != nil {
		return s.loadArchived(ctx, store, convID, err)
	}
	if len(history.Messages) == 0 {
		return nil
	}

	rebuilt := make([]model.ChatMessage, 0, len(history.Messages))
	for i, msg := range history.Messages {
		if msg.Role == model.RoleAssistant && msg.FullResponse != nil {
			query := ""
			if i > 0 {
				query = history.Messages[i-1].Content
			}
			rebuilt = append(rebuilt, render.Classify(msg.FullResponse, query))
			continue
		}
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		rebuilt = append(rebuilt, msg)
	}

	return store.ReplaceMessages(convID, rebuilt)
}

func (s *ChatService) loadArchived(ctx context.Context, store *chat.Store, convID string, cause error) error {
	if s.transcripts == nil {
		return cause
	}
	entries, err := s.transcripts.ListByConversation(ctx, convID)
	if err != nil || len(entries) == 0 {
		return cause
	}

	log.Printf("[Chat] Backend history unavailable (%v), restoring %d archived messages for %s",
		cause, len(entries), convID)

	msgs := make([]model.ChatMessage, 0, len(entries))
	for _, entry := range entries {
		msg, err := entry.Message()
		if err != nil {
			continue
		}
		msgs = append(msgs, *msg)
	}
	return store.ReplaceMessages(convID, msgs)
}

func (s *ChatService) archive(ctx context.Context, convID, sessionID string, sctx model.SessionContext, msg model.ChatMessage) {
	if s.transcripts == nil {
		return
	}
	userID := ""
	if sctx.User != nil {
		userID = sctx.User.ID
	}
	entry, err := repository.NewTranscriptEntry(convID, sessionID, userID, msg)
	if err != nil {
		log.Printf("[Chat] Failed to encode transcript entry: %v", err)
		return
	}
	if err := s.transcripts.Append(ctx, entry); err != nil {
		log.Printf("[Chat] Failed to archive message: %v", err)
	}
}

func (s *ChatService) broadcast(convID, msgType string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToConversation(convID, msgType, payload)
}
