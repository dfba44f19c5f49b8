// Package embedding turns text into fixed-length float32 vectors.
package embedding

import (
	"context"
	"fmt"

	"intentbot/pkg/config"

	"go.uber.org/zap"
)

// Embedder converts free text into a vector of Dimension() values.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New builds the embedder selected by cfg.Provider. Embedders holding remote
// clients also implement io.Closer.
func New(ctx context.Context, cfg *config.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	switch cfg.Provider {
	case config.ProviderHashing, "":
		return NewHashingEmbedder(cfg.Dimension), nil
	case config.ProviderGlove:
		table, err := LoadGlove(cfg.GlovePath, cfg.GloveCachePath, cfg.Dimension, logger)
		if err != nil {
			return nil, err
		}
		return NewGloveEmbedder(table), nil
	case config.ProviderGemini:
		return NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
