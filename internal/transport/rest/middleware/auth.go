package middleware

import (
	"net/http"

	"voidchat/internal/service"
)

// AuthMiddleware gates backend-touching routes on a bearer token.
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireUser rejects requests without a usable token. 403 matches what the
// backend itself returns for unauthenticated queries, so the client handles
// both the same way: prompt to sign in.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sctx := GetSessionContext(r.Context())
		if err := m.authSvc.CheckToken(sctx.Token); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"Authentication Error","message":"Please log in to continue chatting","statusCode":403}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
