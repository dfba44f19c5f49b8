package service

import (
	"context"

	"intentbot/internal/models"
)

// IntentStore is the persistence the chatbot services need. It is satisfied by
// repository.IntentRepository (PostgreSQL) and repository.SQLiteIntentRepository.
type IntentStore interface {
	Ping(ctx context.Context) error
	HasPatterns(ctx context.Context) (bool, error)
	NearestTag(ctx context.Context, embedding []float32) (*models.Match, error)
	RandomResponse(ctx context.Context, tag string) (string, error)
	ReplaceIntents(ctx context.Context, patterns []*models.Pattern, responses []*models.Response) error
	ListIntents(ctx context.Context) ([]*models.IntentSummary, error)
}
