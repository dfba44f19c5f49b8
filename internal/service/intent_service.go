package service

import (
	"context"

	"intentbot/internal/dto"

	"go.uber.org/zap"
)

type IntentService struct {
	store  IntentStore
	logger *zap.Logger
}

func NewIntentService(store IntentStore, logger *zap.Logger) *IntentService {
	return &IntentService{
		store:  store,
		logger: logger,
	}
}

func (s *IntentService) List(ctx context.Context) ([]dto.IntentResponse, error) {
	summaries, err := s.store.ListIntents(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.IntentResponse, len(summaries))
	for i, summary := range summaries {
		result[i] = dto.IntentResponse{
			Tag:       summary.Tag,
			Patterns:  summary.Patterns,
			Responses: summary.Responses,
		}
	}
	return result, nil
}
