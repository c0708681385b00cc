package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidchat/internal/chat"
	"voidchat/internal/model"
	"voidchat/internal/repository"
)

// mockTranscriptRepo records archive calls in memory.
type mockTranscriptRepo struct {
	mu      sync.Mutex
	entries []*repository.TranscriptEntry
	deleted []string
}

func (m *mockTranscriptRepo) Append(ctx context.Context, entry *repository.TranscriptEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockTranscriptRepo) ListByConversation(ctx context.Context, conversationID string) ([]*repository.TranscriptEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repository.TranscriptEntry
	for _, e := range m.entries {
		if e.ConversationID == conversationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockTranscriptRepo) DeleteConversation(ctx context.Context, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, conversationID)
	return nil
}

// mockBroadcaster records hub events.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (m *mockBroadcaster) BroadcastToConversation(conversationID, msgType string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, msgType)
}

func (m *mockBroadcaster) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

func newChatFixture(t *testing.T, backend http.HandlerFunc) (*ChatService, *chat.Store, *mockTranscriptRepo, *mockBroadcaster) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := NewBackendClient(srv.URL)
	repo := &mockTranscriptRepo{}
	hub := &mockBroadcaster{}
	svc := NewChatService(client, NewSessionService(client, nil, nil), repo)
	svc.SetBroadcaster(hub)
	return svc, chat.NewStore(), repo, hub
}

func authedContext() model.SessionContext {
	return model.SessionContext{
		Token: "tok-1",
		User:  &model.UserInfo{ID: "u1", Email: "a@b.c"},
	}
}

func queryBackend(t *testing.T, resp map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/query":
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestSendAppendsUserAndAssistantMessages(t *testing.T) {
	svc, store, repo, hub := newChatFixture(t, queryBackend(t, map[string]any{
		"success":       true,
		"response_type": "conversational",
		"data":          []map[string]any{{"message": "Hello there!"}},
	}))

	conv := store.Create("sess-1")
	assistant, err := svc.Send(context.Background(), store, authedContext(), conv.ID, "hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", assistant.Content)

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3) // greeting, user, assistant
	assert.Equal(t, model.RoleUser, got.Messages[1].Role)
	assert.Equal(t, "hi", got.Messages[1].Content)
	assert.Equal(t, model.RoleAssistant, got.Messages[2].Role)

	// Both sides of the exchange were archived.
	repo.mu.Lock()
	archived := len(repo.entries)
	repo.mu.Unlock()
	assert.Equal(t, 2, archived)

	assert.Equal(t, []string{EventQueryPending, EventMessageAppended}, hub.types())
}

func TestSendRejectsEmptyQuery(t *testing.T) {
	svc, store, _, _ := newChatFixture(t, queryBackend(t, nil))
	conv := store.Create("sess-1")

	_, err := svc.Send(context.Background(), store, authedContext(), conv.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendUnauthenticatedLeavesTranscriptUntouched(t *testing.T) {
	svc, store, repo, _ := newChatFixture(t, queryBackend(t, nil))
	conv := store.Create("sess-1")

	_, err := svc.Send(context.Background(), store, model.SessionContext{}, conv.ID, "hi")
	assert.ErrorIs(t, err, ErrAuthentication)

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1) // only the greeting
	repo.mu.Lock()
	assert.Empty(t, repo.entries)
	repo.mu.Unlock()
}

func TestSendBackendFailureAppendsErrorReply(t *testing.T) {
	svc, store, _, hub := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "cannot parse"})
	})
	conv := store.Create("sess-1")

	_, err := svc.Send(context.Background(), store, authedContext(), conv.ID, "garbage")
	require.ErrorIs(t, err, ErrBackend)

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	last := got.Messages[2]
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Equal(t, errorReplyContent, last.Content)

	assert.Contains(t, hub.types(), EventQueryFailed)
}

func TestSendExpiredTokenSurfacesAuthError(t *testing.T) {
	svc, store, _, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	conv := store.Create("sess-1")

	_, err := svc.Send(context.Background(), store, authedContext(), conv.ID, "hi")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestSendStaleResponseDiscarded(t *testing.T) {
	var store *chat.Store
	var other *chat.Conversation

	svc, s, _, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		// Switch conversations while the query is in flight.
		store.Select(other.ID)
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"response_type": "conversational",
			"data":          []map[string]any{{"message": "late answer"}},
		})
	})
	store = s

	first := store.Create("sess-1")
	other = store.Create("sess-2")
	require.NoError(t, store.Select(first.ID))

	assistant, err := svc.Send(context.Background(), store, authedContext(), first.ID, "slow question")
	require.NoError(t, err)
	assert.Equal(t, "late answer", assistant.Content)

	// The reply was classified but never appended to the abandoned
	// conversation.
	got, err := store.Get(first.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2) // greeting + user
	assert.Equal(t, model.RoleUser, got.Messages[1].Role)
}

func TestSendStaleFailureLeavesAbandonedConversation(t *testing.T) {
	var store *chat.Store
	var other *chat.Conversation

	svc, s, _, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		// Switch conversations, then fail the query.
		store.Select(other.ID)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "cannot parse"})
	})
	store = s

	first := store.Create("sess-1")
	other = store.Create("sess-2")
	require.NoError(t, store.Select(first.ID))

	_, err := svc.Send(context.Background(), store, authedContext(), first.ID, "slow question")
	require.ErrorIs(t, err, ErrBackend)

	// The synthetic error reply is discarded like a stale success would be.
	got, err := store.Get(first.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2) // greeting + user
	assert.Equal(t, model.RoleUser, got.Messages[1].Role)
}

func TestSendConcurrentQueryRejected(t *testing.T) {
	svc, store, _, _ := newChatFixture(t, queryBackend(t, nil))
	conv := store.Create("sess-1")
	require.NoError(t, store.BeginSend(conv.ID))
	defer store.EndSend(conv.ID)

	_, err := svc.Send(context.Background(), store, authedContext(), conv.ID, "hi")
	assert.ErrorIs(t, err, chat.ErrQueryInFlight)
}

func TestNewConversationRequiresAuth(t *testing.T) {
	svc, store, _, _ := newChatFixture(t, queryBackend(t, nil))

	_, err := svc.NewConversation(context.Background(), store, model.SessionContext{})
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestNewConversationProvisionsBackendSession(t *testing.T) {
	svc, store, _, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/sessions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]any{"session_id": "sess-new"})
	})

	conv, err := svc.NewConversation(context.Background(), store, authedContext())
	require.NoError(t, err)
	assert.Equal(t, "sess-new", conv.SessionID)
	assert.Equal(t, conv.ID, store.ActiveID())
}

func TestDeleteConversationRemovesArchive(t *testing.T) {
	svc, store, repo, _ := newChatFixture(t, queryBackend(t, nil))
	keep := store.Create("sess-1")
	doomed := store.Create("sess-2")

	err := svc.DeleteConversation(context.Background(), store, authedContext(), doomed.ID)
	require.NoError(t, err)

	_, err = store.Get(doomed.ID)
	assert.ErrorIs(t, err, chat.ErrConversationNotFound)
	_, err = store.Get(keep.ID)
	assert.NoError(t, err)

	repo.mu.Lock()
	assert.Equal(t, []string{doomed.ID}, repo.deleted)
	repo.mu.Unlock()
}

func TestLoadHistoryReplaysThroughClassifier(t *testing.T) {
	full := map[string]any{
		"success":       true,
		"response_type": "data_query",
		"reasoning":     "two readings",
		"data": []map[string]any{
			{"time": "2024-01-01", "temperature": 12.5},
			{"time": "2024-01-02", "temperature": 13.1},
		},
	}

	svc, store, _, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/sessions/sess-1/history", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"session_id": "sess-1",
			"messages": []map[string]any{
				{"role": "user", "content": "plot temperature vs time"},
				{"role": "assistant", "content": "", "full_response": full},
			},
			"message_count": 2,
		})
	})

	conv := store.Create("sess-1")
	require.NoError(t, svc.LoadHistory(context.Background(), store, authedContext(), conv.ID))

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.RoleUser, got.Messages[0].Role)

	replayed := got.Messages[1]
	assert.Equal(t, model.KindChart, replayed.Kind)
	require.NotNil(t, replayed.Chart)
	assert.Len(t, replayed.Chart.Data, 2)
}

func TestLoadHistoryFallsBackToArchive(t *testing.T) {
	svc, store, repo, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	conv := store.Create("sess-1")
	entry, err := repository.NewTranscriptEntry(conv.ID, "sess-1", "u1", model.ChatMessage{
		ID: "m1", Role: model.RoleUser, Content: "archived question",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), entry))

	require.NoError(t, svc.LoadHistory(context.Background(), store, authedContext(), conv.ID))

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "archived question", got.Messages[0].Content)
}
