package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"intentbot/internal/app"
	"intentbot/internal/classifier"
	"intentbot/internal/dataset"
	"intentbot/pkg/config"
	"intentbot/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	file := flag.String("file", cfg.Dataset.TrainingFile, "training dataset (JSON or YAML)")
	out := flag.String("out", cfg.Classifier.ModelFile, "model file to write")
	epochs := flag.Int("epochs", cfg.Classifier.Epochs, "training epochs")
	flag.Parse()

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := dataset.Load(*file)
	if err != nil {
		appLogger.Fatal("Failed to load training file", zap.String("file", *file), zap.Error(err))
	}

	embedder, closeEmbedder, err := app.OpenEmbedder(ctx, &cfg.Embedding, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedder", zap.Error(err))
	}
	defer closeEmbedder()

	samples, tags, err := classifier.BuildSamples(ctx, ds.Intents, embedder)
	if err != nil {
		appLogger.Fatal("Failed to build training samples", zap.Error(err))
	}

	network, err := classifier.NewNetwork(embedder.Dimension(), cfg.Classifier.HiddenSize, len(tags), cfg.Classifier.Seed)
	if err != nil {
		appLogger.Fatal("Failed to create network", zap.Error(err))
	}

	appLogger.Info("Training classifier",
		zap.Int("samples", len(samples)),
		zap.Int("classes", len(tags)),
		zap.Int("hidden_size", cfg.Classifier.HiddenSize),
		zap.Int("epochs", *epochs),
	)

	loss, err := classifier.Train(ctx, network, samples, classifier.TrainOptions{
		Epochs:       *epochs,
		BatchSize:    cfg.Classifier.BatchSize,
		LearningRate: cfg.Classifier.LearningRate,
		Seed:         cfg.Classifier.Seed,
		OnEpoch: func(epoch int, loss float64) {
			if (epoch+1)%100 == 0 {
				appLogger.Info("Epoch finished", zap.Int("epoch", epoch+1), zap.Float64("loss", loss))
			}
		},
	})
	if err != nil {
		appLogger.Fatal("Training failed", zap.Error(err))
	}

	if err := classifier.Save(*out, network, tags, embedder.Name()); err != nil {
		appLogger.Fatal("Failed to save model", zap.Error(err))
	}
	appLogger.Info("Model saved", zap.String("path", *out), zap.Float64("final_loss", loss))
}
