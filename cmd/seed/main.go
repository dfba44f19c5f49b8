package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"intentbot/internal/app"
	"intentbot/internal/dataset"
	"intentbot/internal/service"
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
	force := flag.Bool("force", false, "repopulate even if the dataset is unchanged")
	flag.Parse()

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

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

	ds, err := dataset.Load(*file)
	if err != nil {
		appLogger.Fatal("Failed to load training file", zap.String("file", *file), zap.Error(err))
	}

	fingerprint := SeedRecord{
		DatasetHash: ds.Hash,
		Embedder:    embedder.Name(),
		Driver:      cfg.Database.Driver,
	}

	cache, err := loadCache(cfg.Dataset.SeedCache)
	if err != nil {
		appLogger.Warn("Failed to load cache, will reseed", zap.Error(err))
		cache = &CacheData{Seeded: make(map[string]SeedRecord)}
	}

	if !*force {
		has, err := store.HasPatterns(ctx)
		if err != nil {
			appLogger.Fatal("Failed to check database", zap.Error(err))
		}
		if cached, ok := cache.Seeded[*file]; ok && has && cached.sameAs(fingerprint) {
			appLogger.Info("Dataset unchanged since last seed, skipping",
				zap.String("file", *file),
				zap.Time("seeded_at", cached.SeededAt),
			)
			return
		}
	}

	appLogger.Info("Seeding database", zap.String("file", *file), zap.Int("intents", len(ds.Intents)))

	seeder := service.NewSeedService(store, embedder, *file, appLogger)
	res, err := seeder.Populate(ctx, ds.Intents)
	if err != nil {
		appLogger.Fatal("Failed to seed database", zap.Error(err))
	}

	fingerprint.SeededAt = time.Now()
	cache.Seeded[*file] = fingerprint
	if err := saveCache(cfg.Dataset.SeedCache, cache); err != nil {
		appLogger.Warn("Failed to save cache", zap.Error(err))
	}

	appLogger.Info("Database seeding completed",
		zap.Int("patterns", res.Patterns),
		zap.Int("responses", res.Responses),
	)
}

// SeedRecord describes one completed seed of a dataset file.
type SeedRecord struct {
	DatasetHash string    `json:"dataset_hash"`
	Embedder    string    `json:"embedder"`
	Driver      string    `json:"driver"`
	SeededAt    time.Time `json:"seeded_at"`
}

func (r SeedRecord) sameAs(o SeedRecord) bool {
	return r.DatasetHash == o.DatasetHash && r.Embedder == o.Embedder && r.Driver == o.Driver
}

type CacheData struct {
	Seeded map[string]SeedRecord `json:"seeded"` // key: dataset path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{Seeded: make(map[string]SeedRecord)}

	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, os.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.Seeded == nil {
		cache.Seeded = make(map[string]SeedRecord)
	}
	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
