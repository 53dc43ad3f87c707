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

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"opencivics/internal/cache"
	"opencivics/internal/config"
	"opencivics/internal/repository"
	"opencivics/internal/service"
	"opencivics/internal/store"
	"opencivics/internal/transport/rest"
	"opencivics/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Analysis:   %s", aiConfig.Models.Analysis)
	log.Printf("  Summary:    %s", aiConfig.Models.Summary)
	log.Printf("  Chat:       %s", aiConfig.Models.Chat)
	log.Printf("  Extraction: %s", aiConfig.Models.Extraction)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:    configured ✓")
	} else {
		log.Println("  API Key:    NOT SET (using algorithmic classification)")
	}

	notionConfig := config.DefaultNotionConfig()
	if notionConfig.IsEnabled() {
		log.Println("Notion resource database: configured ✓")
	} else {
		log.Println("Notion resource database: NOT SET (using built-in resources)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	// Redis connection (optional: empty addr disables the caches)
	var profileCache cache.ProfileCache
	var resourceCache cache.ResourceCache
	if cfg.RedisAddr != "" {
		redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")

		profileCache = cache.NewProfileCache(rdb)
		resourceCache = cache.NewResourceCache(rdb)
	} else {
		log.Println("REDIS_ADDR not set, caches disabled")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(mongoClient)
	responseRepo := repository.NewResponseRepository(mongoClient)
	interestsRepo := repository.NewInterestsRepository(mongoClient)
	conversationRepo := repository.NewConversationRepository(mongoClient)

	// Dual-tier response store
	sessions := store.NewSessionStore(cfg.SessionLimit, cfg.SessionTTL)
	dualStore := store.NewDualStore(sessions, responseRepo)

	// Initialize services
	geminiClient := service.NewGeminiClient(aiConfig)
	sessionSvc := service.NewSessionService(cfg.JWTSecret, cfg.SessionTTL)
	classifierSvc := service.NewClassifierService(geminiClient)
	resourceSvc := service.NewResourceService(notionConfig, resourceCache)
	summarySvc := service.NewSummaryService(geminiClient)
	quizSvc := service.NewQuizService(dualStore, profileRepo, interestsRepo, profileCache)
	completionSvc := service.NewCompletionService(
		dualStore, profileRepo, interestsRepo,
		classifierSvc, resourceSvc, summarySvc,
		profileCache, cfg.SummaryTimeout,
	)
	chatSvc := service.NewChatService(quizSvc, completionSvc, resourceSvc, geminiClient, conversationRepo)

	// Create router with container
	container := &rest.Container{
		SessionService:    sessionSvc,
		QuizService:       quizSvc,
		CompletionService: completionSvc,
		ChatService:       chatSvc,
		ResourceService:   resourceSvc,
		WSHub:             wsHub,
		AllowedOrigins:    cfg.AllowedOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		log.Println("Endpoints:")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/quiz/questions")
		log.Println("  POST /v1/quiz/start")
		log.Println("  POST /v1/quiz/{subjectId}/responses")
		log.Println("  POST /v1/quiz/{subjectId}/complete")
		log.Println("  POST /v1/chat")
		log.Println("  GET  /v1/resources")
		log.Println("  GET  /v1/profiles/{id}")
		log.Println("  WS   /v1/ws/chat")

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
