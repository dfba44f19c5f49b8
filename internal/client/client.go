// Package client talks to the chatbot HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"intentbot/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var ErrUnexpectedStatus = errors.New("unexpected status from chatbot API")

type Client struct {
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

func New(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url:     url,
		timeout: timeout,
		logger:  logger,
	}
}

// Predict posts text to the predict endpoint and returns the response text.
// The request is bounded by the client timeout or the context deadline,
// whichever is sooner.
func (c *Client) Predict(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	agent := fiber.Post(c.url).JSON(dto.QueryInput{Text: text})
	if timeout > 0 {
		agent = agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return "", fmt.Errorf("invalid API_URL %q: %w", c.url, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		c.logger.Warn("Chatbot API request failed", zap.String("url", c.url), zap.Errors("errors", errs))
		return "", fmt.Errorf("request to %s failed: %w", c.url, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		c.logger.Warn("Chatbot API returned error status", zap.Int("status", code), zap.ByteString("body", body))
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}

	var resp dto.QueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode chatbot response: %w", err)
	}
	return resp.ResponseText, nil
}

// Respond lets the client back the chat UI.
func (c *Client) Respond(ctx context.Context, text string) (string, error) {
	return c.Predict(ctx, text)
}
