package app

import (
	"context"
	"path/filepath"
	"testing"

	"intentbot/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "bot.db")}

	store, closeFn, err := OpenStore(ctx, cfg, 8, zap.NewNop())
	require.NoError(t, err)
	has, err := store.HasPatterns(ctx)
	require.NoError(t, err)
	assert.False(t, has)
	closeFn()

	_, _, err = OpenStore(ctx, cfg, 16, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.DatabaseConfig{Driver: "mysql"}, 8, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenEmbedder_Hashing(t *testing.T) {
	emb, closeFn, err := OpenEmbedder(context.Background(), &config.EmbeddingConfig{Provider: config.ProviderHashing, Dimension: 12}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, 12, emb.Dimension())
}
