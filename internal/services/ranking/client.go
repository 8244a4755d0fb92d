// Package ranking talks to the optional external ranking service that may
// reorder near-tied card recommendations by user preference.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards/internal/config"
	"rewards/internal/services/rewards"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrEmptyURL        = errors.New("ranking url is empty")
	ErrDeadlineTooNear = errors.New("deadline too near to call the ranking service")
)

// Response is the body the ranking service answers with.
type Response struct {
	OrderedIDs []uint `json:"ordered_ids"`
}

// Client is a rewards.Reranker backed by an HTTP JSON endpoint.
type Client struct {
	url     string
	apiKey  string
	timeout time.Duration
}

// NewClient creates a client posting to url. A zero timeout falls back to
// rewards.DefaultRerankTimeout.
func NewClient(url, apiKey string, timeout time.Duration) (*Client, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if timeout <= 0 {
		timeout = rewards.DefaultRerankTimeout
	}
	return &Client{url: url, apiKey: apiKey, timeout: timeout}, nil
}

// FromConfig returns the configured reranker, or nil when no ranking URL
// is set.
func FromConfig(cfg config.Engine) rewards.Reranker {
	c, err := NewClient(cfg.RankingURL, cfg.RankingAPIKey, cfg.RankingTimeout)
	if err != nil {
		return nil
	}
	return c
}

// Rerank posts the candidates and returns the ids in the order the service
// prefers. The request never outlives ctx.
func (c *Client) Rerank(ctx context.Context, req rewards.RerankRequest) ([]uint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrDeadlineTooNear
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(c.url).Timeout(timeout).JSON(req)
	if c.apiKey != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.apiKey)
	}

	var out Response
	code, body, errs := agent.Struct(&out)
	if code != 0 && (code < fiber.StatusOK || code >= fiber.StatusMultipleChoices) {
		return nil, fmt.Errorf("ranking service returned %d: %s", code, truncate(body, 200))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("ranking request failed: %w", errors.Join(errs...))
	}
	return out.OrderedIDs, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
