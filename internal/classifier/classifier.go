// Package classifier is the local, in-process intent model: a small
// feed-forward network over sentence embeddings with a softmax confidence gate.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"intentbot/internal/dataset"
	"intentbot/internal/embedding"

	"gonum.org/v1/gonum/mat"
	"go.uber.org/zap"
)

const FallbackResponse = "Sorry, I don't understand your query."

var ErrEmbedderMismatch = errors.New("model was trained with a different embedder")

// Prediction is the most likely tag and its softmax probability.
type Prediction struct {
	Tag         string
	Probability float64
}

type Classifier struct {
	network   *Network
	tags      []string
	responses map[string][]string
	embedder  embedding.Embedder
	threshold float64
	logger    *zap.Logger
}

func New(network *Network, tags []string, intents []dataset.Intent, embedder embedding.Embedder, threshold float64, logger *zap.Logger) (*Classifier, error) {
	if len(tags) != network.NumClasses {
		return nil, fmt.Errorf("%d tags for %d classes", len(tags), network.NumClasses)
	}
	if embedder.Dimension() != network.InputSize {
		return nil, fmt.Errorf("%w: embedder dimension %d, network input %d", ErrEmbedderMismatch, embedder.Dimension(), network.InputSize)
	}
	responses := make(map[string][]string, len(intents))
	for _, intent := range intents {
		responses[intent.Tag] = intent.Responses
	}
	return &Classifier{
		network:   network,
		tags:      tags,
		responses: responses,
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// FromFile loads a saved model and checks it was trained with embedder.
func FromFile(path string, intents []dataset.Intent, embedder embedding.Embedder, threshold float64, logger *zap.Logger) (*Classifier, error) {
	network, file, err := Load(path)
	if err != nil {
		return nil, err
	}
	if file.Embedder != "" && file.Embedder != embedder.Name() {
		return nil, fmt.Errorf("%w: model %q, configured %q", ErrEmbedderMismatch, file.Embedder, embedder.Name())
	}
	return New(network, file.Tags, intents, embedder, threshold, logger)
}

func (c *Classifier) Predict(ctx context.Context, text string) (Prediction, error) {
	emb, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to embed query: %w", err)
	}
	x := mat.NewDense(1, len(emb), nil)
	row := x.RawRowView(0)
	for i, v := range emb {
		row[i] = float64(v)
	}

	probs := Softmax(c.network.Forward(x)).RawRowView(0)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return Prediction{Tag: c.tags[best], Probability: probs[best]}, nil
}

// Respond returns a random response of the predicted tag when its probability
// exceeds the threshold, and FallbackResponse otherwise.
func (c *Classifier) Respond(ctx context.Context, text string) (string, error) {
	pred, err := c.Predict(ctx, text)
	if err != nil {
		return "", err
	}
	c.logger.Debug("Prediction",
		zap.String("tag", pred.Tag),
		zap.Float64("probability", pred.Probability),
	)
	if pred.Probability > c.threshold {
		if responses := c.responses[pred.Tag]; len(responses) > 0 {
			return responses[rand.Intn(len(responses))], nil
		}
	}
	return FallbackResponse, nil
}

// BuildSamples embeds every pattern and labels it with its intent index.
func BuildSamples(ctx context.Context, intents []dataset.Intent, embedder embedding.Embedder) ([]Sample, []string, error) {
	tags := make([]string, 0, len(intents))
	var samples []Sample
	for label, intent := range intents {
		tags = append(tags, intent.Tag)
		for _, pattern := range intent.Patterns {
			emb, err := embedder.Embed(ctx, pattern)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to embed pattern %q: %w", pattern, err)
			}
			samples = append(samples, Sample{Input: emb, Label: label})
		}
	}
	if len(samples) == 0 {
		return nil, nil, ErrNoSamples
	}
	return samples, tags, nil
}
