package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"voidchat/internal/model"
)

// BackendClient wraps the external Void backend REST API. All query
// understanding, SQL generation and data retrieval happens behind it; the
// gateway only forwards and interprets.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewBackendClient creates a client for the backend at baseURL.
func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// backendError is the error envelope the backend emits on failure. FastAPI
// style uses "detail", the gateway style "message"; accept both.
type backendError struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (e backendError) text(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// Query sends a natural-language question to POST /api/v1/query.
func (c *BackendClient) Query(ctx context.Context, req *model.QueryRequest, token string) (*model.QueryResponse, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/v1/query", token, req)
	if err != nil {
		return nil, err
	}
	var resp model.QueryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed query response: %v", ErrBackend, err)
	}
	return &resp, nil
}

// CreateSession creates a backend chat session.
func (c *BackendClient) CreateSession(ctx context.Context, token string) (*model.SessionCreateResponse, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/v1/sessions", token, nil)
	if err != nil {
		return nil, err
	}
	var resp model.SessionCreateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed session response: %v", ErrBackend, err)
	}
	return &resp, nil
}

// ListSessions lists the caller's backend sessions.
func (c *BackendClient) ListSessions(ctx context.Context, token string) (*model.SessionListResponse, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/api/v1/sessions", token, nil)
	if err != nil {
		return nil, err
	}
	var resp model.SessionListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed session list: %v", ErrBackend, err)
	}
	return &resp, nil
}

// SessionHistory fetches the stored transcript of one session.
func (c *BackendClient) SessionHistory(ctx context.Context, sessionID, token string) (*model.SessionHistoryResponse, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	data, err := c.doRequest(ctx, http.MethodGet, "/api/v1/sessions/"+sessionID+"/history", token, nil)
	if err != nil {
		return nil, err
	}
	var resp model.SessionHistoryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed history: %v", ErrBackend, err)
	}
	return &resp, nil
}

// Signup registers a new user.
func (c *BackendClient) Signup(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error) {
	return c.authRequest(ctx, "/api/v1/auth/signup", req)
}

// Login exchanges credentials for tokens.
func (c *BackendClient) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	return c.authRequest(ctx, "/api/v1/auth/login", req)
}

func (c *BackendClient) authRequest(ctx context.Context, path string, body any) (*model.AuthResponse, error) {
	data, err := c.doRequest(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}
	var resp model.AuthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed auth response: %v", ErrBackend, err)
	}
	return &resp, nil
}

// CurrentUser resolves the user behind a bearer token.
func (c *BackendClient) CurrentUser(ctx context.Context, token string) (*model.UserInfo, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/me", token, nil)
	if err != nil {
		return nil, err
	}
	var user model.UserInfo
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: malformed user info: %v", ErrBackend, err)
	}
	return &user, nil
}

// Logout invalidates the backend session for a token.
func (c *BackendClient) Logout(ctx context.Context, token string) (*model.LogoutResponse, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if err != nil {
		return nil, err
	}
	var resp model.LogoutResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed logout response: %v", ErrBackend, err)
	}
	return &resp, nil
}

// Healthy reports whether the backend answers its health endpoint.
func (c *BackendClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// doRequest performs one backend call with retries on transient failures.
// 429 and 5xx responses retry with linear backoff; 4xx responses are final.
func (c *BackendClient) doRequest(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	url := c.baseURL + path
	log.Printf("[Backend] %s %s", method, path)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[Backend] Retry attempt %d/%d for %s %s", attempt, c.maxRetries, method, path)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrNetwork, err)
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrNetwork, err)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return data, nil
		case resp.StatusCode == http.StatusForbidden:
			return nil, ErrAuthentication
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: status %d", ErrBackend, resp.StatusCode)
			continue
		default:
			var envelope backendError
			_ = json.Unmarshal(data, &envelope)
			return nil, fmt.Errorf("%w: %s", ErrBackend,
				envelope.text(fmt.Sprintf("status %d", resp.StatusCode)))
		}
	}

	return nil, lastErr
}
