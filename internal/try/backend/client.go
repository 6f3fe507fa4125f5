package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/whitesnakegang/ouroboros-sub007/internal/resilience"
	"github.com/whitesnakegang/ouroboros-sub007/internal/shared/id"
)

// TryIDTagKey is the span attribute carrying the session identifier. The
// instrumentation collaborator tags outbound spans with it so the backend
// can index traces by session.
const TryIDTagKey = "ouroboros.try_id"

// Config holds trace backend connection settings.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Client queries a Tempo-style trace backend over HTTP: tag search to
// resolve trace IDs, then trace fetch for the raw OTLP payload.
type Client struct {
	rest    *resty.Client
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// New creates a backend client. Returns nil when no URL is configured; the
// caller treats a nil client as "backend disabled".
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.URL == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	rest := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetTransport(retryClient.HTTPClient.Transport).
		SetHeader("Accept", "application/json")

	breaker := resilience.New("trace-backend", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("trace backend circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{rest: rest, breaker: breaker, logger: logger}
}

// Available reports whether the backend is configured and not tripped.
func (c *Client) Available() bool {
	return c != nil && c.breaker.State() != resilience.StateOpen
}

type searchResponse struct {
	Traces []struct {
		TraceID string `json:"traceID"`
	} `json:"traces"`
}

// Search returns the trace IDs the backend has indexed for tryID.
func (c *Client) Search(ctx context.Context, tryID id.TryID) ([]string, error) {
	var result searchResponse

	err := c.breaker.Do(func() error {
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParam("tags", fmt.Sprintf("%s=%s", TryIDTagKey, tryID)).
			SetResult(&result).
			Get("/api/search")
		if err != nil {
			return fmt.Errorf("trace search failed: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("unexpected status %d from trace search", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Traces))
	for _, t := range result.Traces {
		ids = append(ids, t.TraceID)
	}
	return ids, nil
}

// Fetch returns the raw trace payload for traceID, or (nil, nil) when the
// backend has no such trace.
func (c *Client) Fetch(ctx context.Context, traceID string) ([]byte, error) {
	var raw []byte

	err := c.breaker.Do(func() error {
		resp, err := c.rest.R().
			SetContext(ctx).
			Get(fmt.Sprintf("/api/traces/%s", traceID))
		if err != nil {
			return fmt.Errorf("trace fetch failed: %w", err)
		}
		switch resp.StatusCode() {
		case http.StatusOK:
			raw = resp.Body()
			return nil
		case http.StatusNotFound:
			raw = nil
			return nil
		default:
			return fmt.Errorf("unexpected status %d from trace fetch", resp.StatusCode())
		}
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}
