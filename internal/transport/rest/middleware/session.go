package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"voidchat/internal/chat"
	"voidchat/internal/model"
)

type contextKey string

const (
	SessionContextKey contextKey = "sessionContext"
	ChatStoreKey      contextKey = "chatStore"
)

// Cookie session name and the fixed keys persisted in it. The keys match
// what the original browser storage used so session resumption behaves the
// same way across the gateway.
const (
	sessionName    = "void_session"
	keyAuthToken   = "auth_token"
	keyAuthUser    = "auth_user"
	keyChatSession = "float_chat_session_id"
	keyBrowserID   = "browser_id"
)

// storeIdleTTL bounds how long an untouched browser's conversation store
// stays resident. Expired entries are swept lazily on access.
const storeIdleTTL = 12 * time.Hour

type storeEntry struct {
	store    *chat.Store
	lastSeen time.Time
}

// SessionManager binds each browser to a cookie session holding its auth
// state and to an in-memory conversation store. State lives for the
// browser session; the backend and Mongo hold anything durable.
type SessionManager struct {
	cookies *sessions.CookieStore

	mu     sync.Mutex
	stores map[string]*storeEntry
}

// NewSessionManager creates a session manager with the given cookie secret.
func NewSessionManager(secret string) *SessionManager {
	cookieStore := sessions.NewCookieStore([]byte(secret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{
		cookies: cookieStore,
		stores:  make(map[string]*storeEntry),
	}
}

// Attach resolves the browser session and conversation store for every
// request and stores both on the request context.
func (m *SessionManager) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.cookies.Get(r, sessionName)

		browserID, _ := sess.Values[keyBrowserID].(string)
		if browserID == "" {
			browserID = uuid.NewString()
			sess.Values[keyBrowserID] = browserID
			if err := sess.Save(r, w); err != nil {
				// Cookie write failures leave the request usable,
				// just without resumption.
				browserID = ""
			}
		}

		sctx := m.sessionContext(r, sess)
		store := m.storeFor(browserID)

		ctx := context.WithValue(r.Context(), SessionContextKey, sctx)
		ctx = context.WithValue(ctx, ChatStoreKey, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionContext builds the explicit per-request client state. A bearer
// header wins over the cookie so API callers are not coupled to cookies.
func (m *SessionManager) sessionContext(r *http.Request, sess *sessions.Session) model.SessionContext {
	sctx := model.SessionContext{}

	sctx.Token = extractBearerToken(r)
	if sctx.Token == "" {
		sctx.Token, _ = sess.Values[keyAuthToken].(string)
	}
	if raw, ok := sess.Values[keyAuthUser].(string); ok && raw != "" {
		var user model.UserInfo
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			sctx.User = &user
		}
	}
	sctx.SessionID, _ = sess.Values[keyChatSession].(string)
	return sctx
}

func (m *SessionManager) storeFor(browserID string) *chat.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.sweepLocked(now)

	if browserID == "" {
		return chat.NewStore()
	}
	if entry, ok := m.stores[browserID]; ok {
		entry.lastSeen = now
		return entry.store
	}
	entry := &storeEntry{store: chat.NewStore(), lastSeen: now}
	m.stores[browserID] = entry
	return entry.store
}

// sweepLocked drops stores idle past the TTL. Caller holds m.mu.
func (m *SessionManager) sweepLocked(now time.Time) {
	for id, entry := range m.stores {
		if now.Sub(entry.lastSeen) > storeIdleTTL {
			delete(m.stores, id)
		}
	}
}

// SaveAuth persists the token and user into the cookie session.
func (m *SessionManager) SaveAuth(w http.ResponseWriter, r *http.Request, token string, user *model.UserInfo) error {
	sess, _ := m.cookies.Get(r, sessionName)
	sess.Values[keyAuthToken] = token
	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		sess.Values[keyAuthUser] = string(data)
	}
	return sess.Save(r, w)
}

// ClearAuth removes the token, user and chat session from the cookie.
func (m *SessionManager) ClearAuth(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.cookies.Get(r, sessionName)
	delete(sess.Values, keyAuthToken)
	delete(sess.Values, keyAuthUser)
	delete(sess.Values, keyChatSession)
	return sess.Save(r, w)
}

// SaveChatSession persists the current backend session id for resumption.
func (m *SessionManager) SaveChatSession(w http.ResponseWriter, r *http.Request, sessionID string) error {
	sess, _ := m.cookies.Get(r, sessionName)
	sess.Values[keyChatSession] = sessionID
	return sess.Save(r, w)
}

// GetSessionContext reads the client state placed on the request context.
func GetSessionContext(ctx context.Context) model.SessionContext {
	if v := ctx.Value(SessionContextKey); v != nil {
		return v.(model.SessionContext)
	}
	return model.SessionContext{}
}

// GetChatStore reads the conversation store placed on the request context.
func GetChatStore(ctx context.Context) *chat.Store {
	if v := ctx.Value(ChatStoreKey); v != nil {
		return v.(*chat.Store)
	}
	return chat.NewStore()
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
