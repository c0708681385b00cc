package rest

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"voidchat/internal/service"
	"voidchat/internal/transport/rest/handler"
	"voidchat/internal/transport/rest/middleware"
	"voidchat/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	ChatService    *service.ChatService
	Backend        *service.BackendClient
	Sessions       *middleware.SessionManager
	WSHub          *ws.Hub
	CORSOrigins    []string
}

// NewRouter creates the gateway router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.Sessions)
	chatHandler := handler.NewChatHandler(c.Backend)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.Sessions)
	convHandler := handler.NewConversationHandler(c.ChatService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	pageHandler, err := handler.NewPageHandler()
	if err != nil {
		log.Fatal("Failed to parse page templates:", err)
	}

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// Every request gets its browser session and conversation store.
	r.Use(c.Sessions.Attach)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Marketing pages
	r.HandleFunc("/", pageHandler.Home).Methods("GET")
	r.HandleFunc("/about", pageHandler.About).Methods("GET")
	r.HandleFunc("/chat", pageHandler.Chat).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")

	// Session listing stays public: the backend returns an empty list
	// without auth, matching the original proxy behavior.
	api.HandleFunc("/chat/sessions", sessionHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/chat/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/chat/sessions/{sessionId}/history", sessionHandler.History).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	api.HandleFunc("/ws/conversations/{conversationId}", wsHandler.ConversationWS).Methods("GET")

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/chat", chatHandler.Query).Methods("POST", "OPTIONS")
	authed.HandleFunc("/conversations", convHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/conversations", convHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/conversations/{conversationId}/select", convHandler.Select).Methods("POST", "OPTIONS")
	authed.HandleFunc("/conversations/{conversationId}", convHandler.Delete).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/conversations/{conversationId}/messages", convHandler.Send).Methods("POST", "OPTIONS")
	authed.HandleFunc("/conversations/{conversationId}/messages", convHandler.Messages).Methods("GET", "OPTIONS")

	corsMW := cors.New(cors.Options{
		AllowedOrigins:   c.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return corsMW.Handler(r)
}
