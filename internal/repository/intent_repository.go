package repository

import (
	"context"
	"errors"
	"fmt"

	"intentbot/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// IntentRepository stores patterns and responses in PostgreSQL, with pattern
// embeddings in a pgvector column searched by cosine distance.
type IntentRepository struct {
	db        *pgxpool.Pool
	dimension int
	logger    *zap.Logger
}

func NewIntentRepository(db *pgxpool.Pool, dimension int, logger *zap.Logger) *IntentRepository {
	return &IntentRepository{
		db:        db,
		dimension: dimension,
		logger:    logger,
	}
}

const postgresSchema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS patterns (
    id UUID PRIMARY KEY,
    tag TEXT NOT NULL,
    pattern_text TEXT NOT NULL,
    embedding vector(%d) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS responses (
    id UUID PRIMARY KEY,
    tag TEXT NOT NULL,
    response_text TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_patterns_embedding ON patterns USING hnsw (embedding vector_cosine_ops);
CREATE INDEX IF NOT EXISTS idx_responses_tag ON responses (tag);
`

// EnsureSchema creates the tables when missing and verifies that an existing
// patterns.embedding column has the configured dimension.
func (r *IntentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, fmt.Sprintf(postgresSchema, r.dimension)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// atttypmod of a vector column is its dimension
	var stored int
	err := r.db.QueryRow(ctx,
		`SELECT atttypmod FROM pg_attribute WHERE attrelid = 'patterns'::regclass AND attname = 'embedding'`,
	).Scan(&stored)
	if err != nil {
		return fmt.Errorf("failed to read embedding column type: %w", err)
	}
	if stored != r.dimension {
		return fmt.Errorf("%w: patterns.embedding is vector(%d), embedder produces %d", ErrDimensionMismatch, stored, r.dimension)
	}
	return nil
}

func (r *IntentRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *IntentRepository) HasPatterns(ctx context.Context) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, "SELECT 1 FROM patterns LIMIT 1").Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NearestTag returns the pattern closest to embedding by cosine distance.
func (r *IntentRepository) NearestTag(ctx context.Context, embedding []float32) (*models.Match, error) {
	if len(embedding) != r.dimension {
		return nil, fmt.Errorf("%w: query has %d values, store expects %d", ErrDimensionMismatch, len(embedding), r.dimension)
	}

	query := squirrel.Select("tag", "pattern_text").
		Column(squirrel.Alias(squirrel.Expr("embedding <=> ?::vector", pgvector.NewVector(embedding)), "distance")).
		From("patterns").
		OrderBy("distance ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var match models.Match
	err = r.db.QueryRow(ctx, sql, args...).Scan(&match.Tag, &match.Pattern, &match.Distance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *IntentRepository) RandomResponse(ctx context.Context, tag string) (string, error) {
	query := squirrel.Select("response_text").
		From("responses").
		Where(squirrel.Eq{"tag": tag}).
		OrderBy("RANDOM()").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var text string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return text, err
}

// ReplaceIntents swaps the whole pattern and response set in one transaction.
func (r *IntentRepository) ReplaceIntents(ctx context.Context, patterns []*models.Pattern, responses []*models.Response) error {
	if err := checkDimensions(patterns, r.dimension); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM patterns"); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM responses"); err != nil {
		return err
	}

	for start := 0; start < len(responses); start += insertBatchSize {
		builder := squirrel.Insert("responses").
			Columns("id", "tag", "response_text", "created_at").
			PlaceholderFormat(squirrel.Dollar)
		for _, resp := range responses[start:min(start+insertBatchSize, len(responses))] {
			builder = builder.Values(resp.ID, resp.Tag, resp.Text, resp.CreatedAt)
		}
		if err := execBuilder(ctx, tx, builder); err != nil {
			return fmt.Errorf("failed to insert responses: %w", err)
		}
	}

	for start := 0; start < len(patterns); start += insertBatchSize {
		builder := squirrel.Insert("patterns").
			Columns("id", "tag", "pattern_text", "embedding", "created_at").
			PlaceholderFormat(squirrel.Dollar)
		for _, p := range patterns[start:min(start+insertBatchSize, len(patterns))] {
			builder = builder.Values(p.ID, p.Tag, p.Text, squirrel.Expr("?::vector", pgvector.NewVector(p.Embedding)), p.CreatedAt)
		}
		if err := execBuilder(ctx, tx, builder); err != nil {
			return fmt.Errorf("failed to insert patterns: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit intents: %w", err)
	}

	r.logger.Info("Intents replaced",
		zap.Int("patterns", len(patterns)),
		zap.Int("responses", len(responses)),
	)
	return nil
}

func execBuilder(ctx context.Context, tx pgx.Tx, builder squirrel.InsertBuilder) error {
	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func (r *IntentRepository) ListIntents(ctx context.Context) ([]*models.IntentSummary, error) {
	patterns, err := r.countByTag(ctx, "patterns")
	if err != nil {
		return nil, err
	}
	responses, err := r.countByTag(ctx, "responses")
	if err != nil {
		return nil, err
	}
	return mergeCounts(patterns, responses), nil
}

func (r *IntentRepository) countByTag(ctx context.Context, table string) (map[string]int, error) {
	sql, args, err := squirrel.Select("tag", "COUNT(*)").
		From(table).
		GroupBy("tag").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, err
		}
		counts[tag] = n
	}
	return counts, rows.Err()
}
