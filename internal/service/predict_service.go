package service

import (
	"context"
	"errors"

	"intentbot/internal/embedding"
	"intentbot/internal/repository"

	"go.uber.org/zap"
)

const (
	NoMatchResponse    = "Sorry, I don't understand that."
	SpeechlessResponse = "I know about that topic, but I'm speechless."
	ErrorResponse      = "Sorry, something went wrong on my end."
)

// PredictService answers a query with a response of the nearest stored intent.
type PredictService struct {
	store       IntentStore
	embedder    embedding.Embedder
	maxDistance float64
	logger      *zap.Logger
}

// NewPredictService creates the service. A positive maxDistance rejects matches
// whose cosine distance exceeds it.
func NewPredictService(store IntentStore, embedder embedding.Embedder, maxDistance float64, logger *zap.Logger) *PredictService {
	return &PredictService{
		store:       store,
		embedder:    embedder,
		maxDistance: maxDistance,
		logger:      logger,
	}
}

// Predict never fails: every error path maps to one of the fallback responses.
func (s *PredictService) Predict(ctx context.Context, text string) string {
	text = cleanText(text)

	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Error("Failed to embed query", zap.String("embedder", s.embedder.Name()), zap.Error(err))
		return ErrorResponse
	}
	if isZero(emb) {
		s.logger.Debug("Query has no known tokens", zap.String("text", text))
		return NoMatchResponse
	}

	match, err := s.store.NearestTag(ctx, emb)
	if errors.Is(err, repository.ErrNotFound) {
		return NoMatchResponse
	}
	if err != nil {
		s.logger.Error("Nearest pattern lookup failed", zap.Error(err))
		return ErrorResponse
	}

	if s.maxDistance > 0 && match.Distance > s.maxDistance {
		s.logger.Debug("Nearest pattern too far",
			zap.String("tag", match.Tag),
			zap.Float64("distance", match.Distance),
			zap.Float64("max_distance", s.maxDistance),
		)
		return NoMatchResponse
	}

	response, err := s.store.RandomResponse(ctx, match.Tag)
	if errors.Is(err, repository.ErrNotFound) {
		return SpeechlessResponse
	}
	if err != nil {
		s.logger.Error("Response lookup failed", zap.String("tag", match.Tag), zap.Error(err))
		return ErrorResponse
	}

	s.logger.Debug("Query answered",
		zap.String("tag", match.Tag),
		zap.String("pattern", match.Pattern),
		zap.Float64("distance", match.Distance),
	)
	return response
}
