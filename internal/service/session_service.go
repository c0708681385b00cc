package service

import (
	"context"
	"log"

	"voidchat/internal/cache"
	"voidchat/internal/model"
)

// SessionService manages backend chat sessions for the gateway: creation,
// validation, resumption and cached listing. The backend owns the sessions;
// Redis only keeps short-lived copies of what it said.
type SessionService struct {
	backend  *BackendClient
	sessions cache.SessionCache
	history  cache.HistoryCache
}

// NewSessionService creates a session service.
func NewSessionService(backend *BackendClient, sessions cache.SessionCache, history cache.HistoryCache) *SessionService {
	return &SessionService{
		backend:  backend,
		sessions: sessions,
		history:  history,
	}
}

// GetOrCreate resumes an existing backend session when it still exists,
// otherwise creates a fresh one. A stale id is dropped silently, matching
// the resume-or-recreate behavior the chat page expects.
func (s *SessionService) GetOrCreate(ctx context.Context, sctx model.SessionContext) (string, error) {
	if sctx.SessionID != "" {
		if s.Validate(ctx, sctx.SessionID, sctx.Token) {
			return sctx.SessionID, nil
		}
		log.Printf("[Session] Session %s not found on backend, creating new one", sctx.SessionID)
	}

	created, err := s.backend.CreateSession(ctx, sctx.Token)
	if err != nil {
		return "", err
	}
	return created.SessionID, nil
}

// Create always provisions a new backend session.
func (s *SessionService) Create(ctx context.Context, token string) (*model.SessionCreateResponse, error) {
	return s.backend.CreateSession(ctx, token)
}

// Validate reports whether a session still exists on the backend.
func (s *SessionService) Validate(ctx context.Context, sessionID, token string) bool {
	_, err := s.backend.SessionHistory(ctx, sessionID, token)
	return err == nil
}

// List returns the caller's sessions, cache-aside per user.
func (s *SessionService) List(ctx context.Context, sctx model.SessionContext) (*model.SessionListResponse, error) {
	userID := ""
	if sctx.User != nil {
		userID = sctx.User.ID
	}

	if userID != "" && s.sessions != nil {
		if cached, err := s.sessions.Get(ctx, userID); err == nil {
			return cached, nil
		}
	}

	list, err := s.backend.ListSessions(ctx, sctx.Token)
	if err != nil {
		return nil, err
	}

	if userID != "" && s.sessions != nil {
		if err := s.sessions.Set(ctx, userID, list); err != nil {
			log.Printf("[Session] Failed to cache session list: %v", err)
		}
	}
	return list, nil
}

// History returns a session transcript, cache-aside per session.
func (s *SessionService) History(ctx context.Context, sessionID, token string) (*model.SessionHistoryResponse, error) {
	if s.history != nil {
		if cached, err := s.history.Get(ctx, sessionID); err == nil {
			return cached, nil
		}
	}

	history, err := s.backend.SessionHistory(ctx, sessionID, token)
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		if err := s.history.Set(ctx, sessionID, history); err != nil {
			log.Printf("[Session] Failed to cache history: %v", err)
		}
	}
	return history, nil
}

// InvalidateAfterSend drops cache entries a completed send made stale.
func (s *SessionService) InvalidateAfterSend(ctx context.Context, sctx model.SessionContext, sessionID string) {
	if s.history != nil && sessionID != "" {
		if err := s.history.Invalidate(ctx, sessionID); err != nil {
			log.Printf("[Session] Failed to invalidate history cache: %v", err)
		}
	}
	if s.sessions != nil && sctx.User != nil && sctx.User.ID != "" {
		if err := s.sessions.Invalidate(ctx, sctx.User.ID); err != nil {
			log.Printf("[Session] Failed to invalidate session cache: %v", err)
		}
	}
}
