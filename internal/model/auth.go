package model

// SignUpRequest is the body for POST /api/v1/auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the backend credential flows.
type AuthResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *UserInfo     `json:"user,omitempty"`
	Session *TokenSession `json:"session,omitempty"`
}

// TokenSession carries the bearer tokens issued on login/signup.
type TokenSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// UserInfo is the authenticated user record.
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// LogoutResponse is returned by POST /api/v1/auth/logout.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionContext carries the per-request client state every backend-touching
// operation needs: who is asking, with what token, against which backend
// session and which active conversation. It is passed explicitly so the
// classification and normalization logic stays free of ambient state.
type SessionContext struct {
	Token     string
	User      *UserInfo
	SessionID string
}

// Authenticated reports whether the context carries a bearer token.
func (c SessionContext) Authenticated() bool {
	return c.Token != ""
}
