package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"voidchat/internal/service"
	"voidchat/internal/transport/rest/middleware"
)

// SessionHandler proxies the backend session endpoints, with the gateway's
// Redis caches in front of list and history.
type SessionHandler struct {
	sessionSvc *service.SessionService
	sessions   *middleware.SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, sessions *middleware.SessionManager) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, sessions: sessions}
}

// Create handles POST /api/chat/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sctx := middleware.GetSessionContext(r.Context())

	created, err := h.sessionSvc.Create(r.Context(), sctx.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Remember the new session for resumption within this browser tab
	// lifetime.
	if err := h.sessions.SaveChatSession(w, r, created.SessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "failed to persist session id")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// List handles GET /api/chat/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sctx := middleware.GetSessionContext(r.Context())

	list, err := h.sessionSvc.List(r.Context(), sctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// History handles GET /api/chat/sessions/{sessionId}/history
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Validation Error", "Session ID is required")
		return
	}

	sctx := middleware.GetSessionContext(r.Context())
	history, err := h.sessionSvc.History(r.Context(), sessionID, sctx.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
