package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"voidchat/internal/service"
	"voidchat/internal/transport/rest/middleware"
)

// ConversationHandler exposes the conversation store plus the chat
// orchestrator: send runs the full classify-and-append flow, the rest
// manages the sidebar.
type ConversationHandler struct {
	chatSvc *service.ChatService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(chatSvc *service.ChatService) *ConversationHandler {
	return &ConversationHandler{chatSvc: chatSvc}
}

type sendRequest struct {
	Text string `json:"text"`
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetChatStore(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": store.List(),
		"active_id":     store.ActiveID(),
	})
}

// Create handles POST /api/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetChatStore(r.Context())
	sctx := middleware.GetSessionContext(r.Context())

	conv, err := h.chatSvc.NewConversation(r.Context(), store, sctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// Select handles POST /api/conversations/{conversationId}/select. Selecting
// also reloads the transcript from the backend so switching chats shows
// their history.
func (h *ConversationHandler) Select(w http.ResponseWriter, r *http.Request) {
	convID := mux.Vars(r)["conversationId"]
	store := middleware.GetChatStore(r.Context())
	sctx := middleware.GetSessionContext(r.Context())

	if err := store.Select(convID); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.chatSvc.LoadHistory(r.Context(), store, sctx, convID); err != nil {
		writeServiceError(w, err)
		return
	}

	conv, err := store.Get(convID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// Delete handles DELETE /api/conversations/{conversationId}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	convID := mux.Vars(r)["conversationId"]
	store := middleware.GetChatStore(r.Context())
	sctx := middleware.GetSessionContext(r.Context())

	if err := h.chatSvc.DeleteConversation(r.Context(), store, sctx, convID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Send handles POST /api/conversations/{conversationId}/messages
func (h *ConversationHandler) Send(w http.ResponseWriter, r *http.Request) {
	convID := mux.Vars(r)["conversationId"]
	store := middleware.GetChatStore(r.Context())
	sctx := middleware.GetSessionContext(r.Context())

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "invalid request body")
		return
	}

	msg, err := h.chatSvc.Send(r.Context(), store, sctx, convID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Messages handles GET /api/conversations/{conversationId}/messages
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	convID := mux.Vars(r)["conversationId"]
	store := middleware.GetChatStore(r.Context())

	conv, err := store.Get(convID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversation_id": conv.ID,
		"messages":        conv.Messages,
		"message_count":   conv.MessageCount,
	})
}
