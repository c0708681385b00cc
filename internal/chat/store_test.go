package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidchat/internal/model"
)

func TestStoreCreateOpensWithGreeting(t *testing.T) {
	s := NewStore()
	conv := s.Create("sess-1")

	assert.Equal(t, "New Chat", conv.Title)
	assert.Equal(t, "sess-1", conv.SessionID)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, Greeting, conv.Messages[0].Content)
	assert.Equal(t, conv.ID, s.ActiveID())
}

func TestStoreAppendRetitlesOnFirstUserMessage(t *testing.T) {
	s := NewStore()
	conv := s.Create("sess-1")

	require.NoError(t, s.Append(conv.ID, model.ChatMessage{
		Role:    model.RoleUser,
		Content: "show temperature profiles near the equator please",
	}))

	got, err := s.Get(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "show temperature profiles near"+"...", got.Title)
	assert.Equal(t, 2, got.MessageCount)

	// A second user message does not retitle.
	require.NoError(t, s.Append(conv.ID, model.ChatMessage{
		Role:    model.RoleUser,
		Content: "another question",
	}))
	got, err = s.Get(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "show temperature profiles near"+"...", got.Title)
}

func TestStoreRetitleCutsOnRuneBoundary(t *testing.T) {
	s := NewStore()
	conv := s.Create("sess-1")

	// Multi-byte runes straddling the cut point must not be split.
	query := strings.Repeat("温", 40)
	require.NoError(t, s.Append(conv.ID, model.ChatMessage{
		Role:    model.RoleUser,
		Content: query,
	}))

	got, err := s.Get(conv.ID)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(got.Title))
	assert.Equal(t, strings.Repeat("温", 30)+"...", got.Title)
}

func TestStoreDeleteLastForbidden(t *testing.T) {
	s := NewStore()
	conv := s.Create("sess-1")

	assert.ErrorIs(t, s.Delete(conv.ID), ErrLastConversation)

	second := s.Create("sess-2")
	require.NoError(t, s.Delete(conv.ID))
	assert.Equal(t, second.ID, s.ActiveID())
	assert.ErrorIs(t, s.Delete(second.ID), ErrLastConversation)
}

func TestStoreDeleteActiveSelectsRemaining(t *testing.T) {
	s := NewStore()
	first := s.Create("sess-1")
	second := s.Create("sess-2")

	require.NoError(t, s.Select(second.ID))
	require.NoError(t, s.Delete(second.ID))
	assert.Equal(t, first.ID, s.ActiveID())
}

func TestStoreAppendIfActiveDiscardsStale(t *testing.T) {
	s := NewStore()
	first := s.Create("sess-1")
	s.Create("sess-2") // becomes active

	landed, err := s.AppendIfActive(first.ID, model.ChatMessage{
		Role:    model.RoleAssistant,
		Content: "late answer",
	})
	require.NoError(t, err)
	assert.False(t, landed)

	got, err := s.Get(first.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
}

func TestStoreInFlightGate(t *testing.T) {
	s := NewStore()
	first := s.Create("sess-1")
	second := s.Create("sess-2")

	require.NoError(t, s.BeginSend(first.ID))
	assert.ErrorIs(t, s.BeginSend(first.ID), ErrQueryInFlight)

	// Other conversations are independent.
	require.NoError(t, s.BeginSend(second.ID))

	s.EndSend(first.ID)
	require.NoError(t, s.BeginSend(first.ID))
}

func TestStoreUnknownConversation(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Select("missing"), ErrConversationNotFound)
	assert.ErrorIs(t, s.Append("missing", model.ChatMessage{}), ErrConversationNotFound)
	assert.ErrorIs(t, s.BeginSend("missing"), ErrConversationNotFound)
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	s := NewStore()
	conv := s.Create("sess-1")

	conv.Messages[0].Content = "mutated"
	got, err := s.Get(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, Greeting, got.Messages[0].Content)
}
