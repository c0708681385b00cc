package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"voidchat/internal/cache"
	"voidchat/internal/config"
	"voidchat/internal/repository"
	"voidchat/internal/service"
	"voidchat/internal/transport/rest"
	"voidchat/internal/transport/rest/middleware"
	"voidchat/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	log.Printf("Backend: %s", cfg.BackendURL)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories and caches
	transcriptRepo := repository.NewTranscriptRepo(db)
	sessionCache := cache.NewSessionCache(rdb)
	historyCache := cache.NewHistoryCache(rdb)

	// Initialize services
	backend := service.NewBackendClient(cfg.BackendURL)
	authSvc := service.NewAuthService(backend)
	sessionSvc := service.NewSessionService(backend, sessionCache, historyCache)
	chatSvc := service.NewChatService(backend, sessionSvc, transcriptRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	chatSvc.SetBroadcaster(wsHub)

	sessionMgr := middleware.NewSessionManager(cfg.SessionKey)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		ChatService:    chatSvc,
		Backend:        backend,
		Sessions:       sessionMgr,
		WSHub:          wsHub,
		CORSOrigins:    cfg.CORSOrigins,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  GET  /  /about  /chat")
		log.Println("  POST /api/auth/signup")
		log.Println("  POST /api/auth/login")
		log.Println("  GET  /api/auth/me")
		log.Println("  POST /api/chat")
		log.Println("  POST/GET /api/chat/sessions")
		log.Println("  GET  /api/chat/sessions/{sessionId}/history")
		log.Println("  GET/POST /api/conversations")
		log.Println("  WS  /api/ws/conversations/{conversationId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
