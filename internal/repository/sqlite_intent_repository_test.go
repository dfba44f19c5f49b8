package repository

import (
	"context"
	"testing"
	"time"

	"intentbot/internal/models"
	"intentbot/pkg/sqlite"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, dim int) *SQLiteIntentRepository {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLiteIntentRepository(db, dim, zap.NewNop())
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func pattern(tag, text string, emb ...float32) *models.Pattern {
	return &models.Pattern{ID: uuid.New(), Tag: tag, Text: text, Embedding: emb, CreatedAt: time.Now()}
}

func response(tag, text string) *models.Response {
	return &models.Response{ID: uuid.New(), Tag: tag, Text: text, CreatedAt: time.Now()}
}

func seedStore(t *testing.T, repo *SQLiteIntentRepository) {
	t.Helper()
	err := repo.ReplaceIntents(context.Background(),
		[]*models.Pattern{
			pattern("greeting", "hello", 1, 0, 0),
			pattern("greeting", "hi there", 0.9, 0.1, 0),
			pattern("ls", "list files", 0, 1, 0),
			pattern("silent", "shh", 0, 0, 1),
		},
		[]*models.Response{
			response("greeting", "Hi!"),
			response("greeting", "Hello!"),
			response("ls", "Use ls to list files."),
		},
	)
	require.NoError(t, err)
}

func TestSQLiteIntentRepository_HasPatterns(t *testing.T) {
	repo := newTestStore(t, 3)
	ctx := context.Background()

	has, err := repo.HasPatterns(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	seedStore(t, repo)

	has, err = repo.HasPatterns(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSQLiteIntentRepository_NearestTag(t *testing.T) {
	repo := newTestStore(t, 3)
	seedStore(t, repo)
	ctx := context.Background()

	match, err := repo.NearestTag(ctx, []float32{0.1, 0.9, 0})
	require.NoError(t, err)
	assert.Equal(t, "ls", match.Tag)
	assert.Equal(t, "list files", match.Pattern)
	assert.Less(t, match.Distance, 0.05)

	match, err = repo.NearestTag(ctx, []float32{2, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "greeting", match.Tag)
	assert.Equal(t, "hello", match.Pattern)
	assert.InDelta(t, 0, match.Distance, 1e-6)
}

func TestSQLiteIntentRepository_NearestTagEmptyOrZero(t *testing.T) {
	repo := newTestStore(t, 3)
	ctx := context.Background()

	_, err := repo.NearestTag(ctx, []float32{1, 0, 0})
	assert.ErrorIs(t, err, ErrNotFound)

	seedStore(t, repo)
	_, err = repo.NearestTag(ctx, []float32{0, 0, 0})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteIntentRepository_RandomResponse(t *testing.T) {
	repo := newTestStore(t, 3)
	seedStore(t, repo)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		text, err := repo.RandomResponse(ctx, "greeting")
		require.NoError(t, err)
		assert.Contains(t, []string{"Hi!", "Hello!"}, text)
	}

	_, err := repo.RandomResponse(ctx, "silent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteIntentRepository_DimensionEnforced(t *testing.T) {
	repo := newTestStore(t, 3)
	ctx := context.Background()

	err := repo.ReplaceIntents(ctx, []*models.Pattern{pattern("x", "bad", 1, 2)}, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = repo.NearestTag(ctx, []float32{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSQLiteIntentRepository_SchemaDimensionRecorded(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, NewSQLiteIntentRepository(db, 3, zap.NewNop()).EnsureSchema(ctx))
	require.NoError(t, NewSQLiteIntentRepository(db, 3, zap.NewNop()).EnsureSchema(ctx))

	err = NewSQLiteIntentRepository(db, 4, zap.NewNop()).EnsureSchema(ctx)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSQLiteIntentRepository_ReplaceAndList(t *testing.T) {
	repo := newTestStore(t, 3)
	seedStore(t, repo)
	ctx := context.Background()

	intents, err := repo.ListIntents(ctx)
	require.NoError(t, err)
	require.Len(t, intents, 3)
	assert.Equal(t, &models.IntentSummary{Tag: "greeting", Patterns: 2, Responses: 2}, intents[0])
	assert.Equal(t, &models.IntentSummary{Tag: "ls", Patterns: 1, Responses: 1}, intents[1])
	assert.Equal(t, &models.IntentSummary{Tag: "silent", Patterns: 1, Responses: 0}, intents[2])

	err = repo.ReplaceIntents(ctx,
		[]*models.Pattern{pattern("bye", "goodbye", 0, 0, 1)},
		[]*models.Response{response("bye", "See you.")},
	)
	require.NoError(t, err)

	intents, err = repo.ListIntents(ctx)
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, "bye", intents[0].Tag)
}
