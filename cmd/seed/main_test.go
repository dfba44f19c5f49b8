package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RoundTripAndMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache, err := loadCache(path)
	require.NoError(t, err)
	assert.Empty(t, cache.Seeded)

	rec := SeedRecord{DatasetHash: "abc", Embedder: "hashing", Driver: "sqlite", SeededAt: time.Now()}
	cache.Seeded["train.json"] = rec
	require.NoError(t, saveCache(path, cache))

	loaded, err := loadCache(path)
	require.NoError(t, err)
	assert.True(t, loaded.Seeded["train.json"].sameAs(rec))
	assert.False(t, loaded.Seeded["train.json"].sameAs(SeedRecord{DatasetHash: "abc", Embedder: "glove", Driver: "sqlite"}))
}
