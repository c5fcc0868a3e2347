// internal/adapters/api/client.go

// Package api implements the remote inventory API ports over HTTP. It owns
// bearer injection, request ids, client-side rate limiting and error
// normalization; domain semantics live in the core services.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/candyline/sweetshop/internal/core/domain"
)

// DefaultRequestIDHeader names the header carrying the per-request id
const DefaultRequestIDHeader = "X-Request-ID"

// Config holds the HTTP client settings
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	RequestIDHeader string
}

// Client is the shared HTTP plumbing for the sweet shop API. TokenFn
// supplies the current bearer credential ("" when logged out);
// OnUnauthorized runs whenever the server answers 401, before the error is
// returned to the caller.
type Client struct {
	baseURL         string
	http            *http.Client
	limiter         *rate.Limiter
	logger          *slog.Logger
	requestIDHeader string
	tokenFn         func() string
	onUnauthorized  func()
}

// NewClient creates an API client for the given base URL
func NewClient(cfg Config, tokenFn func() string, onUnauthorized func(), logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	header := cfg.RequestIDHeader
	if header == "" {
		header = DefaultRequestIDHeader
	}
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	return &Client{
		baseURL:         cfg.BaseURL,
		http:            &http.Client{Timeout: timeout},
		limiter:         limiter,
		logger:          logger.With(slog.String("adapter", "api")),
		requestIDHeader: header,
		tokenFn:         tokenFn,
		onUnauthorized:  onUnauthorized,
	}
}

// do performs one request and decodes the response into out (when non-nil).
// Non-2xx responses become *domain.RemoteError carrying the server's
// {error} body verbatim when present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(c.requestIDHeader, requestID)
	if token := c.tokenFn(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFrom(resp)
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorFrom normalizes a failed response. Error bodies are expected to
// carry {error: string}; anything else yields an empty message and callers
// fall back to a generic one.
func (c *Client) errorFrom(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &domain.RemoteError{StatusCode: resp.StatusCode, Message: body.Error}
}
