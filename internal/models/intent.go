package models

import (
	"time"

	"github.com/google/uuid"
)

// Pattern is one example phrasing of an intent with its stored embedding.
type Pattern struct {
	ID        uuid.UUID `db:"id"`
	Tag       string    `db:"tag"`
	Text      string    `db:"pattern_text"`
	Embedding []float32 `db:"embedding"`
	CreatedAt time.Time `db:"created_at"`
}

// Response is a canned reply; it belongs to exactly one tag.
type Response struct {
	ID        uuid.UUID `db:"id"`
	Tag       string    `db:"tag"`
	Text      string    `db:"response_text"`
	CreatedAt time.Time `db:"created_at"`
}

// Match is the tag of the stored pattern nearest to a query embedding.
type Match struct {
	Tag      string
	Pattern  string
	Distance float64
}

type IntentSummary struct {
	Tag       string `db:"tag"`
	Patterns  int    `db:"patterns"`
	Responses int    `db:"responses"`
}
