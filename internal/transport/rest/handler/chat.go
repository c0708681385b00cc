package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"voidchat/internal/model"
	"voidchat/internal/service"
	"voidchat/internal/transport/rest/middleware"
)

// ChatHandler is the raw query proxy: it forwards a query to the backend
// and returns the untouched QueryResponse. Clients that render themselves
// use this; the conversation endpoints go through the classifier instead.
type ChatHandler struct {
	backend *service.BackendClient
}

// NewChatHandler creates a new chat handler
func NewChatHandler(backend *service.BackendClient) *ChatHandler {
	return &ChatHandler{backend: backend}
}

// Query handles POST /api/chat
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	sctx := middleware.GetSessionContext(r.Context())

	var req model.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Validation Error", "Query is required")
		return
	}

	resp, err := h.backend.Query(r.Context(), &req, sctx.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
