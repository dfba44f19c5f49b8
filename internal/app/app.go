// Package app wires configuration into the store and embedder shared by the
// commands.
package app

import (
	"context"
	"fmt"
	"io"

	"intentbot/internal/embedding"
	"intentbot/internal/repository"
	"intentbot/internal/service"
	"intentbot/pkg/config"
	"intentbot/pkg/postgres"
	"intentbot/pkg/sqlite"

	"go.uber.org/zap"
)

// Store is an IntentStore that can create its own schema.
type Store interface {
	service.IntentStore
	EnsureSchema(ctx context.Context) error
}

// OpenStore connects to the configured database, creates the schema for
// dimension-sized embeddings and returns a function releasing the connection.
func OpenStore(ctx context.Context, cfg *config.DatabaseConfig, dimension int, logger *zap.Logger) (Store, func(), error) {
	var (
		store   Store
		closeFn func()
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		store = repository.NewIntentRepository(pool, dimension, logger.Named("postgres"))
		closeFn = pool.Close
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite database opened", zap.String("path", cfg.SQLitePath))
		store = repository.NewSQLiteIntentRepository(db, dimension, logger.Named("sqlite"))
		closeFn = func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}

// OpenEmbedder builds the configured embedder. The returned function closes
// remote clients and is safe to call for local embedders.
func OpenEmbedder(ctx context.Context, cfg *config.EmbeddingConfig, logger *zap.Logger) (embedding.Embedder, func(), error) {
	emb, err := embedding.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Embedder ready", zap.String("name", emb.Name()), zap.Int("dimension", emb.Dimension()))

	closeFn := func() {}
	if c, ok := emb.(io.Closer); ok {
		closeFn = func() {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close embedder", zap.Error(err))
			}
		}
	}
	return emb, closeFn, nil
}
