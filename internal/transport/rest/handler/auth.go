package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"voidchat/internal/model"
	"voidchat/internal/service"
	"voidchat/internal/transport/rest/middleware"
)

// AuthHandler handles the credential flow endpoints, proxying them to the
// backend and mirroring the outcome into the cookie session.
type AuthHandler struct {
	authSvc  *service.AuthService
	sessions *middleware.SessionManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessions: sessions}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "invalid request body")
		return
	}

	resp, err := h.authSvc.Signup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.persistAuth(w, r, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation Error", "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.persistAuth(w, r, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sctx := middleware.GetSessionContext(r.Context())

	user, err := h.authSvc.CurrentUser(r.Context(), sctx.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout. Local auth state clears even when
// the backend call fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sctx := middleware.GetSessionContext(r.Context())

	h.authSvc.Logout(r.Context(), sctx.Token)
	if err := h.sessions.ClearAuth(w, r); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "failed to clear session")
		return
	}
	writeJSON(w, http.StatusOK, model.LogoutResponse{Success: true, Message: "logged out"})
}

func (h *AuthHandler) persistAuth(w http.ResponseWriter, r *http.Request, resp *model.AuthResponse) {
	if resp == nil || !resp.Success || resp.Session == nil {
		return
	}
	if err := h.sessions.SaveAuth(w, r, resp.Session.AccessToken, resp.User); err != nil {
		// The tokens still reach the client in the response body.
		log.Printf("[Auth] Failed to persist session cookie: %v", err)
	}
}
