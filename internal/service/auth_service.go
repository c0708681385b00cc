package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"voidchat/internal/model"
)

var ErrTokenExpired = errors.New("token is expired, please sign in again")

// AuthService fronts the backend credential flows. Token issuance and
// verification stay external; the only local work is a cheap expiry check
// on the bearer token so obviously dead tokens skip the round-trip.
type AuthService struct {
	backend *BackendClient
}

// NewAuthService creates an auth service over the backend client.
func NewAuthService(backend *BackendClient) *AuthService {
	return &AuthService{backend: backend}
}

// Signup registers a user with the backend.
func (s *AuthService) Signup(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	return s.backend.Signup(ctx, req)
}

// Login exchanges credentials for a token session.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	return s.backend.Login(ctx, req)
}

// CurrentUser resolves the user behind a token, pre-checking expiry.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.UserInfo, error) {
	if err := s.CheckToken(token); err != nil {
		return nil, err
	}
	return s.backend.CurrentUser(ctx, token)
}

// Logout invalidates the token with the backend. Failures are logged and
// swallowed: local auth state is cleared either way.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if _, err := s.backend.Logout(ctx, token); err != nil {
		log.Printf("[Auth] Logout failed: %v", err)
	}
}

// CheckToken rejects missing or locally-expired bearer tokens. The
// signature is not verified here; that is the backend's job.
func (s *AuthService) CheckToken(token string) error {
	if token == "" {
		return ErrAuthentication
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens pass through; the backend decides.
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return fmt.Errorf("%w: %w", ErrAuthentication, ErrTokenExpired)
	}
	return nil
}
