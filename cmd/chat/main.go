package main

import (
	"context"
	"flag"
	"log"

	"intentbot/internal/app"
	"intentbot/internal/classifier"
	"intentbot/internal/client"
	"intentbot/internal/dataset"
	"intentbot/internal/tui"
	"intentbot/pkg/config"
	"intentbot/pkg/logger"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mode := flag.String("mode", "api", "answer with the HTTP API (api) or the local classifier (local)")
	logFile := flag.String("log", "chat.log", "log file; the terminal is used by the UI")
	flag.Parse()

	appLogger, err := logger.NewFile(cfg.Logger.Level, *logFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	var (
		responder tui.Responder
		title     string
	)

	switch *mode {
	case "api":
		responder = client.New(cfg.Client.APIURL, cfg.Client.Timeout, appLogger.Named("client"))
		title = "Chatbot (" + cfg.Client.APIURL + ")"
	case "local":
		ctx := context.Background()
		ds, err := dataset.Load(cfg.Dataset.TrainingFile)
		if err != nil {
			log.Fatalf("Failed to load training file: %v", err)
		}
		embedder, closeEmbedder, err := app.OpenEmbedder(ctx, &cfg.Embedding, appLogger)
		if err != nil {
			log.Fatalf("Failed to initialize embedder: %v", err)
		}
		defer closeEmbedder()

		c, err := classifier.FromFile(cfg.Classifier.ModelFile, ds.Intents, embedder, cfg.Classifier.Threshold, appLogger.Named("classifier"))
		if err != nil {
			log.Fatalf("Failed to load model %s: %v", cfg.Classifier.ModelFile, err)
		}
		responder = c
		title = "Chatbot (local model)"
	default:
		log.Fatalf("Unknown mode %q, want api or local", *mode)
	}

	appLogger.Info("Chat started", zap.String("mode", *mode))
	if _, err := tea.NewProgram(tui.New(responder, title, cfg.Client.Timeout), tea.WithAltScreen()).Run(); err != nil {
		appLogger.Error("Chat UI failed", zap.Error(err))
		log.Fatalf("Chat UI failed: %v", err)
	}
}
