package embedding

import (
	"bufio"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"intentbot/pkg/vector"

	"go.uber.org/zap"
)

// GloveTable maps words to pretrained vectors of a single dimension.
type GloveTable struct {
	Dim     int
	Vectors map[string][]float32
}

// LoadGlove returns the table stored at cachePath when it exists and matches
// dim, otherwise parses the GloVe text file at path and writes the cache.
// Lines whose vector length differs from dim are skipped.
func LoadGlove(path, cachePath string, dim int, logger *zap.Logger) (*GloveTable, error) {
	if cachePath != "" {
		table, err := readGloveCache(cachePath)
		switch {
		case err == nil && table.Dim == dim:
			logger.Info("Loaded pre-saved GloVe embeddings", zap.String("cache", cachePath), zap.Int("words", len(table.Vectors)))
			return table, nil
		case err == nil:
			logger.Warn("GloVe cache dimension mismatch, rebuilding", zap.Int("cached", table.Dim), zap.Int("want", dim))
		case !errors.Is(err, os.ErrNotExist):
			logger.Warn("Failed to read GloVe cache, rebuilding", zap.Error(err))
		}
	}

	logger.Info("Building GloVe embeddings", zap.String("path", path))
	table, err := parseGlove(path, dim)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := writeGloveCache(cachePath, table); err != nil {
			logger.Warn("Failed to write GloVe cache", zap.Error(err))
		}
	}
	return table, nil
}

func parseGlove(path string, dim int) (*GloveTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GloVe file: %w", err)
	}
	defer f.Close()

	table := &GloveTable{Dim: dim, Vectors: make(map[string][]float32)}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != dim+1 {
			continue
		}
		vec := make([]float32, dim)
		ok := true
		for i, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				ok = false
				break
			}
			vec[i] = float32(v)
		}
		if ok {
			table.Vectors[fields[0]] = vec
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read GloVe file: %w", err)
	}
	if len(table.Vectors) == 0 {
		return nil, fmt.Errorf("no %d-dimensional vectors in %s", dim, path)
	}
	return table, nil
}

func readGloveCache(path string) (*GloveTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var table GloveTable
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode GloVe cache: %w", err)
	}
	return &table, nil
}

func writeGloveCache(path string, table *GloveTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(table); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// GloveEmbedder embeds a sentence as the mean of its known token vectors.
type GloveEmbedder struct {
	table *GloveTable
}

func NewGloveEmbedder(table *GloveTable) *GloveEmbedder {
	return &GloveEmbedder{table: table}
}

func (e *GloveEmbedder) Name() string { return "glove" }

func (e *GloveEmbedder) Dimension() int { return e.table.Dim }

// Embed returns a zero vector when no token is in the vocabulary.
func (e *GloveEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.EmbedTokens(Tokenize(text, DefaultIgnore))
}

func (e *GloveEmbedder) EmbedTokens(tokens []string) ([]float32, error) {
	vecs := make([][]float32, 0, len(tokens))
	for _, tok := range tokens {
		if v, ok := e.table.Vectors[tok]; ok {
			vecs = append(vecs, v)
		}
	}
	return vector.Mean(vecs, e.table.Dim)
}
