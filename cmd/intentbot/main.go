package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intentbot/internal/api"
	"intentbot/internal/api/handlers"
	"intentbot/internal/app"
	"intentbot/internal/service"
	"intentbot/pkg/auth"
	"intentbot/pkg/config"
	"intentbot/pkg/logger"

	"go.uber.org/zap"
)

// @title Intentbot API
// @version 1.0
// @description Intent-matching chatbot backed by a vector database.

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting intentbot API",
		zap.String("driver", cfg.Database.Driver),
		zap.String("embedder", cfg.Embedding.Provider),
	)

	ctx := context.Background()

	embedder, closeEmbedder, err := app.OpenEmbedder(ctx, &cfg.Embedding, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedder", zap.Error(err))
	}
	defer closeEmbedder()

	store, closeStore, err := app.OpenStore(ctx, &cfg.Database, embedder.Dimension(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer closeStore()

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	predictService := service.NewPredictService(store, embedder, cfg.Match.MaxDistance, appLogger.Named("predict"))
	seedService := service.NewSeedService(store, embedder, cfg.Dataset.TrainingFile, appLogger.Named("seed"))
	intentService := service.NewIntentService(store, appLogger)
	authService := service.NewAuthService(cfg.Admin, jwtManager, appLogger)

	// an unreachable training file must not keep the API from serving
	seedCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	if _, err := seedService.EnsurePopulated(seedCtx); err != nil {
		appLogger.Error("Failed to populate database on startup", zap.Error(err))
	}
	cancel()

	server := api.SetupRouter(api.Handlers{
		Predict: handlers.NewPredictHandler(predictService, appLogger),
		Health:  handlers.NewHealthHandler(store, embedder.Name(), appLogger),
		Auth:    handlers.NewAuthHandler(authService, appLogger),
		Intent:  handlers.NewIntentHandler(intentService, seedService, appLogger),
	}, &cfg.Server, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
