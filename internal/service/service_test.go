package service

import (
	"context"
	"errors"
	"testing"

	"intentbot/internal/dataset"
	"intentbot/internal/dto"
	"intentbot/internal/embedding"
	"intentbot/internal/models"
	"intentbot/internal/repository"
	"intentbot/pkg/auth"
	"intentbot/pkg/config"
	"intentbot/pkg/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	match       *models.Match
	matchErr    error
	response    string
	responseErr error
	has         bool
	replaced    []*models.Pattern
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) HasPatterns(context.Context) (bool, error) { return f.has, nil }

func (f *fakeStore) NearestTag(context.Context, []float32) (*models.Match, error) {
	return f.match, f.matchErr
}

func (f *fakeStore) RandomResponse(context.Context, string) (string, error) {
	return f.response, f.responseErr
}

func (f *fakeStore) ReplaceIntents(_ context.Context, patterns []*models.Pattern, _ []*models.Response) error {
	f.replaced = patterns
	return nil
}

func (f *fakeStore) ListIntents(context.Context) ([]*models.IntentSummary, error) {
	return []*models.IntentSummary{{Tag: "greeting", Patterns: 2, Responses: 1}}, nil
}

type failingEmbedder struct{ embedding.Embedder }

func (failingEmbedder) Name() string { return "failing" }

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("model offline")
}

func TestPredictService_Fallbacks(t *testing.T) {
	emb := embedding.NewHashingEmbedder(32)
	ctx := context.Background()

	tests := []struct {
		name     string
		store    *fakeStore
		maxDist  float64
		embedder embedding.Embedder
		text     string
		want     string
	}{
		{
			name:  "answered",
			store: &fakeStore{match: &models.Match{Tag: "greeting", Distance: 0.1}, response: "Hi!"},
			text:  "hello",
			want:  "Hi!",
		},
		{
			name:  "no patterns stored",
			store: &fakeStore{matchErr: repository.ErrNotFound},
			text:  "hello",
			want:  NoMatchResponse,
		},
		{
			name:    "match beyond max distance",
			store:   &fakeStore{match: &models.Match{Tag: "greeting", Distance: 0.8}, response: "Hi!"},
			maxDist: 0.5,
			text:    "hello",
			want:    NoMatchResponse,
		},
		{
			name:  "tag without responses",
			store: &fakeStore{match: &models.Match{Tag: "silent"}, responseErr: repository.ErrNotFound},
			text:  "hello",
			want:  SpeechlessResponse,
		},
		{
			name:  "store failure",
			store: &fakeStore{matchErr: errors.New("connection reset")},
			text:  "hello",
			want:  ErrorResponse,
		},
		{
			name:     "embedder failure",
			store:    &fakeStore{},
			embedder: failingEmbedder{},
			text:     "hello",
			want:     ErrorResponse,
		},
		{
			name:  "nothing to embed",
			store: &fakeStore{match: &models.Match{Tag: "greeting"}, response: "Hi!"},
			text:  "?!",
			want:  NoMatchResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.embedder
			if e == nil {
				e = emb
			}
			svc := NewPredictService(tt.store, e, tt.maxDist, zap.NewNop())
			assert.Equal(t, tt.want, svc.Predict(ctx, tt.text))
		})
	}
}

func TestSeedService_EnsurePopulatedSkipsWhenFilled(t *testing.T) {
	store := &fakeStore{has: true}
	svc := NewSeedService(store, embedding.NewHashingEmbedder(16), "does-not-exist.json", zap.NewNop())

	seeded, err := svc.EnsurePopulated(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Nil(t, store.replaced)
}

func TestSeedService_EnsurePopulatedMissingFile(t *testing.T) {
	svc := NewSeedService(&fakeStore{}, embedding.NewHashingEmbedder(16), "does-not-exist.json", zap.NewNop())

	seeded, err := svc.EnsurePopulated(context.Background())
	assert.ErrorIs(t, err, dataset.ErrNotFound)
	assert.False(t, seeded)
}

func TestSeedService_PopulateSkipsBlanks(t *testing.T) {
	store := &fakeStore{}
	svc := NewSeedService(store, embedding.NewHashingEmbedder(16), "", zap.NewNop())

	res, err := svc.Populate(context.Background(), []dataset.Intent{
		{Tag: "greeting", Patterns: []string{"hello", "  ", "hi"}, Responses: []string{"Hi!", ""}},
	})
	require.NoError(t, err)
	assert.Equal(t, &dto.SeedResponse{Intents: 1, Patterns: 2, Responses: 1}, res)
	require.Len(t, store.replaced, 2)
	assert.Len(t, store.replaced[0].Embedding, 16)
}

func TestSeedAndPredict_SQLite(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	emb := embedding.NewHashingEmbedder(128)
	store := repository.NewSQLiteIntentRepository(db, emb.Dimension(), zap.NewNop())
	require.NoError(t, store.EnsureSchema(ctx))

	seeder := NewSeedService(store, emb, "", zap.NewNop())
	_, err = seeder.Populate(ctx, []dataset.Intent{
		{Tag: "ls", Patterns: []string{"list files", "show directory contents"}, Responses: []string{"Use ls."}},
		{Tag: "pwd", Patterns: []string{"print working directory", "where am i"}, Responses: []string{"Use pwd."}},
		{Tag: "mute", Patterns: []string{"stay quiet please"}},
	})
	require.NoError(t, err)

	predictor := NewPredictService(store, emb, 0, zap.NewNop())
	assert.Equal(t, "Use ls.", predictor.Predict(ctx, "list the files"))
	assert.Equal(t, "Use pwd.", predictor.Predict(ctx, "Where am I?"))
	assert.Equal(t, SpeechlessResponse, predictor.Predict(ctx, "stay quiet"))

	intents, err := NewIntentService(store, zap.NewNop()).List(ctx)
	require.NoError(t, err)
	assert.Len(t, intents, 3)
}

func TestIntentService_List(t *testing.T) {
	intents, err := NewIntentService(&fakeStore{}, zap.NewNop()).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.IntentResponse{{Tag: "greeting", Patterns: 2, Responses: 1}}, intents)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", 0)
	svc := NewAuthService(config.AdminConfig{Username: "admin", PasswordHash: hash}, jwtManager, zap.NewNop())
	ctx := context.Background()

	res, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "root", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	disabled := NewAuthService(config.AdminConfig{Username: "admin"}, jwtManager, zap.NewNop())
	_, err = disabled.Login(ctx, &dto.LoginRequest{Username: "admin", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "hello", sanitizeUTF8("hel\xfflo"))
	assert.Equal(t, "привет", sanitizeUTF8("привет"))
	assert.Equal(t, "ok", cleanText("  ok \n"))
}
