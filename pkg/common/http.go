// Package common holds the shared HTTP plumbing used by the REST transport:
// a rate-limited client with a configurable timeout and structured logging.
package common

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/veiloq/threecommas-connector/pkg/logging"
	"github.com/veiloq/threecommas-connector/pkg/ratelimit"
)

// HTTPClient defines the interface for dispatching HTTP requests
type HTTPClient interface {
	// Do executes an HTTP request, waiting on the rate limiter first.
	// The request is sent exactly once: retry policy belongs to the caller,
	// not the transport.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)

	// SetRateLimit updates the rate limiter configuration
	SetRateLimit(limit ratelimit.Rate) error
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout   time.Duration
	RateLimit ratelimit.Rate

	// Optional logger
	Logger logging.Logger
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout: 30 * time.Second,
		RateLimit: ratelimit.Rate{
			Limit:    10,
			Interval: time.Second,
		},
		Logger: logging.NewNopLogger(),
	}
}

// client implements the HTTPClient interface
type client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    ratelimit.RateLimiter
	logger     logging.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *ClientConfig) HTTPClient {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = logging.NewNopLogger()
	}

	return &client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: ratelimit.NewTokenBucketLimiter(config.RateLimit),
		logger:  config.Logger,
	}
}

// Do implements HTTPClient interface
func (c *client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait error: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		c.logger.Warn("http request failed",
			logging.String("method", req.Method),
			logging.String("url", req.URL.String()),
			logging.Error(err),
		)
		return nil, fmt.Errorf("http request error: %w", err)
	}

	c.logger.Debug("http request",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// SetRateLimit implements HTTPClient interface
func (c *client) SetRateLimit(limit ratelimit.Rate) error {
	return c.limiter.SetLimit(limit)
}
