package repository

import (
	"errors"
	"fmt"
	"sort"

	"intentbot/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

const insertBatchSize = 500

func checkDimensions(patterns []*models.Pattern, dim int) error {
	for _, p := range patterns {
		if len(p.Embedding) != dim {
			return fmt.Errorf("%w: pattern %q has %d values, store expects %d", ErrDimensionMismatch, p.Text, len(p.Embedding), dim)
		}
	}
	return nil
}

// mergeCounts joins per-tag pattern and response counts into summaries sorted by tag.
func mergeCounts(patterns, responses map[string]int) []*models.IntentSummary {
	byTag := make(map[string]*models.IntentSummary, len(patterns))
	get := func(tag string) *models.IntentSummary {
		s, ok := byTag[tag]
		if !ok {
			s = &models.IntentSummary{Tag: tag}
			byTag[tag] = s
		}
		return s
	}
	for tag, n := range patterns {
		get(tag).Patterns = n
	}
	for tag, n := range responses {
		get(tag).Responses = n
	}

	out := make([]*models.IntentSummary, 0, len(byTag))
	for _, s := range byTag {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
