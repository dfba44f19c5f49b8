package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("API_URL", "")
	t.Setenv("EMBEDDING_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/predict", cfg.Client.APIURL)
	assert.Equal(t, int32(1), cfg.Database.MinConns)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, ProviderHashing, cfg.Embedding.Provider)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, 0.75, cfg.Classifier.Threshold)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://bot:secret@db:5432/chatbot")
	t.Setenv("DB_HOST", "ignored")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://bot:secret@db:5432/chatbot", cfg.Database.DSN())
}

func TestDatabaseConfig_DSNFromParts(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "word2vec")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := &Config{
		Database:   DatabaseConfig{Driver: DriverSQLite, MinConns: 5, MaxConns: 2},
		Embedding:  EmbeddingConfig{Provider: ProviderHashing, Dimension: 8},
		Classifier: ClassifierConfig{Threshold: 0.75},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.MinConns = 1
	assert.NoError(t, cfg.Validate())
}
