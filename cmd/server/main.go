package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"docquiz/internal/cache"
	"docquiz/internal/config"
	"docquiz/internal/extract"
	"docquiz/internal/logger"
	"docquiz/internal/service"
	"docquiz/internal/store"
	"docquiz/internal/transport/rest"
	"docquiz/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// @title docquiz API
// @version 1.0
// @description PDF to multiple-choice quiz generation and session management
// @host localhost:8080
// @BasePath /v1
func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	cfg := config.Load()
	aiConfig := config.DefaultAIConfig()

	log.Info("AI config",
		zap.String("generateModel", aiConfig.Models.Generate),
		zap.String("explainModel", aiConfig.Models.Explain),
		zap.Bool("apiKeyConfigured", aiConfig.IsEnabled()))
	if !aiConfig.IsEnabled() {
		log.Warn("GEMINI_API_KEY not set, using mock generator")
	}

	// Quiz store: MongoDB when configured, local JSON file otherwise
	var quizStore store.QuizStore
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal("failed to ping MongoDB", zap.Error(err))
		}
		log.Info("connected to MongoDB")

		quizStore = store.NewMongoStore(mongoClient.Database("docquiz"), log)
	} else {
		log.Info("using file quiz store", zap.String("path", cfg.StorePath))
		quizStore = store.NewFileStore(cfg.StorePath, log)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	generator := service.NewGeneratorService(aiConfig, log)
	recordSvc := service.NewRecordService(ctx, quizStore, log)
	sessionSvc := service.NewSessionService(extract.NewPDFExtractor(), generator, recordSvc, log)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	// Optional redis explanation cache
	if cfg.RedisAddr != "" {
		addr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("failed to ping Redis", zap.Error(err))
		}
		log.Info("connected to Redis")
		sessionSvc.SetExplanationCache(cache.NewExplanationCache(rdb))
	}

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		RecordService:  recordSvc,
		WSHub:          wsHub,
		WSHandler:      ws.NewHandler(wsHub, authSvc, log),
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
