package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"intentbot/internal/models"
	"intentbot/pkg/sqlite"
	"intentbot/pkg/vector"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// SQLiteIntentRepository is the embedded store. Embeddings are little-endian
// float32 BLOBs ranked with the vec_cosine_distance SQL function.
type SQLiteIntentRepository struct {
	db        *sql.DB
	dimension int
	logger    *zap.Logger
}

func NewSQLiteIntentRepository(db *sql.DB, dimension int, logger *zap.Logger) *SQLiteIntentRepository {
	return &SQLiteIntentRepository{
		db:        db,
		dimension: dimension,
		logger:    logger,
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS store_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS patterns (
    id TEXT PRIMARY KEY,
    tag TEXT NOT NULL,
    pattern_text TEXT NOT NULL,
    embedding BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS responses (
    id TEXT PRIMARY KEY,
    tag TEXT NOT NULL,
    response_text TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_patterns_tag ON patterns (tag);
CREATE INDEX IF NOT EXISTS idx_responses_tag ON responses (tag);
`

// EnsureSchema creates the tables and records the embedding dimension on
// first use. A database created for another dimension is rejected.
func (r *SQLiteIntentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var stored string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM store_meta WHERE key = 'dimension'").Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = r.db.ExecContext(ctx, "INSERT INTO store_meta (key, value) VALUES ('dimension', ?)", strconv.Itoa(r.dimension))
		return err
	}
	if err != nil {
		return err
	}
	if stored != strconv.Itoa(r.dimension) {
		return fmt.Errorf("%w: database holds %s-dimensional embeddings, embedder produces %d", ErrDimensionMismatch, stored, r.dimension)
	}
	return nil
}

func (r *SQLiteIntentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteIntentRepository) HasPatterns(ctx context.Context) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM patterns LIMIT 1").Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLiteIntentRepository) NearestTag(ctx context.Context, embedding []float32) (*models.Match, error) {
	if len(embedding) != r.dimension {
		return nil, fmt.Errorf("%w: query has %d values, store expects %d", ErrDimensionMismatch, len(embedding), r.dimension)
	}

	query := squirrel.Select("tag", "pattern_text").
		Column(squirrel.Alias(squirrel.Expr(sqlite.FuncCosineDistance+"(embedding, ?)", vector.Encode(embedding)), "distance")).
		From("patterns").
		OrderBy("distance IS NULL", "distance ASC").
		Limit(1)

	q, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var match models.Match
	var distance sql.NullFloat64
	err = r.db.QueryRowContext(ctx, q, args...).Scan(&match.Tag, &match.Pattern, &distance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// NULL distance means the query or every stored vector has zero magnitude
	if !distance.Valid {
		return nil, ErrNotFound
	}
	match.Distance = distance.Float64
	return &match, nil
}

func (r *SQLiteIntentRepository) RandomResponse(ctx context.Context, tag string) (string, error) {
	q, args, err := squirrel.Select("response_text").
		From("responses").
		Where(squirrel.Eq{"tag": tag}).
		OrderBy("RANDOM()").
		Limit(1).
		ToSql()
	if err != nil {
		return "", err
	}

	var text string
	err = r.db.QueryRowContext(ctx, q, args...).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return text, err
}

func (r *SQLiteIntentRepository) ReplaceIntents(ctx context.Context, patterns []*models.Pattern, responses []*models.Response) error {
	if err := checkDimensions(patterns, r.dimension); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM patterns"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM responses"); err != nil {
		return err
	}

	respStmt, err := tx.PrepareContext(ctx, "INSERT INTO responses (id, tag, response_text, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer respStmt.Close()
	for _, resp := range responses {
		if _, err := respStmt.ExecContext(ctx, resp.ID.String(), resp.Tag, resp.Text, resp.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert response for %q: %w", resp.Tag, err)
		}
	}

	patStmt, err := tx.PrepareContext(ctx, "INSERT INTO patterns (id, tag, pattern_text, embedding, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer patStmt.Close()
	for _, p := range patterns {
		if _, err := patStmt.ExecContext(ctx, p.ID.String(), p.Tag, p.Text, vector.Encode(p.Embedding), p.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert pattern %q: %w", p.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit intents: %w", err)
	}

	r.logger.Info("Intents replaced",
		zap.Int("patterns", len(patterns)),
		zap.Int("responses", len(responses)),
	)
	return nil
}

func (r *SQLiteIntentRepository) ListIntents(ctx context.Context) ([]*models.IntentSummary, error) {
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

func (r *SQLiteIntentRepository) countByTag(ctx context.Context, table string) (map[string]int, error) {
	q, args, err := squirrel.Select("tag", "COUNT(*)").From(table).GroupBy("tag").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
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
