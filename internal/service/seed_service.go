package service

import (
	"context"
	"fmt"
	"time"

	"intentbot/internal/dataset"
	"intentbot/internal/dto"
	"intentbot/internal/embedding"
	"intentbot/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedService embeds the training patterns and writes them to the store.
type SeedService struct {
	store        IntentStore
	embedder     embedding.Embedder
	trainingFile string
	logger       *zap.Logger
}

func NewSeedService(store IntentStore, embedder embedding.Embedder, trainingFile string, logger *zap.Logger) *SeedService {
	return &SeedService{
		store:        store,
		embedder:     embedder,
		trainingFile: trainingFile,
		logger:       logger,
	}
}

// Populate replaces the stored intents with intents. Empty patterns and
// responses are skipped.
func (s *SeedService) Populate(ctx context.Context, intents []dataset.Intent) (*dto.SeedResponse, error) {
	now := time.Now()
	var patterns []*models.Pattern
	var responses []*models.Response

	for _, intent := range intents {
		tag := cleanText(intent.Tag)
		if tag == "" {
			continue
		}

		for _, text := range intent.Responses {
			text = cleanText(text)
			if text == "" {
				continue
			}
			responses = append(responses, &models.Response{
				ID:        uuid.New(),
				Tag:       tag,
				Text:      text,
				CreatedAt: now,
			})
		}

		for _, text := range intent.Patterns {
			text = cleanText(text)
			if text == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			emb, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("failed to embed pattern %q of %q: %w", text, tag, err)
			}
			patterns = append(patterns, &models.Pattern{
				ID:        uuid.New(),
				Tag:       tag,
				Text:      text,
				Embedding: emb,
				CreatedAt: now,
			})
		}
	}

	if err := s.store.ReplaceIntents(ctx, patterns, responses); err != nil {
		return nil, fmt.Errorf("failed to store intents: %w", err)
	}

	s.logger.Info("Database populated",
		zap.Int("intents", len(intents)),
		zap.Int("patterns", len(patterns)),
		zap.Int("responses", len(responses)),
		zap.String("embedder", s.embedder.Name()),
	)

	return &dto.SeedResponse{
		Intents:   len(intents),
		Patterns:  len(patterns),
		Responses: len(responses),
	}, nil
}

// Reload reads the training file and repopulates the store from it.
func (s *SeedService) Reload(ctx context.Context) (*dto.SeedResponse, error) {
	ds, err := dataset.Load(s.trainingFile)
	if err != nil {
		return nil, err
	}
	return s.Populate(ctx, ds.Intents)
}

// EnsurePopulated seeds the store from the training file when it holds no
// patterns yet. It reports whether seeding ran.
func (s *SeedService) EnsurePopulated(ctx context.Context) (bool, error) {
	has, err := s.store.HasPatterns(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing patterns: %w", err)
	}
	if has {
		s.logger.Info("Database already populated")
		return false, nil
	}

	s.logger.Info("Database is empty, populating from training file", zap.String("file", s.trainingFile))
	if _, err := s.Reload(ctx); err != nil {
		return false, err
	}
	return true, nil
}
