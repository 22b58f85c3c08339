package common

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/veiloq/threecommas-connector/pkg/logging"
	"github.com/veiloq/threecommas-connector/pkg/ratelimit"
)

// DefaultMaxBodyLogSize bounds how much of a request or response body ends up
// in a log entry
const DefaultMaxBodyLogSize = 4096

// DebugClientConfig holds configuration for the HTTP debug client
type DebugClientConfig struct {
	*ClientConfig

	LogRequestBody  bool
	LogResponseBody bool

	// Maximum size of request/response body to log
	MaxBodyLogSize int
}

// DefaultDebugConfig returns a default debug client configuration
func DefaultDebugConfig() *DebugClientConfig {
	cfg := DefaultConfig()
	cfg.Logger = logging.NewLogger(logging.WithDebugLevel(), logging.WithDevelopmentMode())
	return &DebugClientConfig{
		ClientConfig:    cfg,
		LogRequestBody:  true,
		LogResponseBody: true,
		MaxBodyLogSize:  DefaultMaxBodyLogSize,
	}
}

// NewDebugHTTPClient creates an HTTP client that logs every request and
// response at debug level. Credential-bearing headers (APIKEY, Signature)
// are redacted before logging.
func NewDebugHTTPClient(config *DebugClientConfig) HTTPClient {
	if config == nil {
		config = DefaultDebugConfig()
	}

	return &debugClient{
		client: NewHTTPClient(config.ClientConfig).(*client),
		config: config,
	}
}

// debugClient implements the HTTPClient interface with additional debug logging
type debugClient struct {
	client *client
	config *DebugClientConfig
}

// redactedHeaders carry credentials or credential-derived material and are
// never written to logs.
var redactedHeaders = []string{"APIKEY", "Signature", "Authorization"}

// Do implements HTTPClient interface with debug logging
func (c *debugClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	c.logRequest(req)

	resp, err := c.client.Do(ctx, req)

	duration := time.Since(start)
	if err != nil {
		c.client.logger.Error("http request failed",
			logging.String("method", req.Method),
			logging.String("url", req.URL.String()),
			logging.Duration("duration", duration),
			logging.Error(err))
		return nil, err
	}

	c.logResponse(req, resp, duration)
	return resp, nil
}

// SetRateLimit implements HTTPClient interface
func (c *debugClient) SetRateLimit(limit ratelimit.Rate) error {
	return c.client.SetRateLimit(limit)
}

func (c *debugClient) logRequest(req *http.Request) {
	logger := c.client.logger

	headers := make(map[string]string, len(req.Header))
	for name := range req.Header {
		headers[name] = req.Header.Get(name)
	}
	for _, name := range redactedHeaders {
		// Header maps store canonical keys, e.g. APIKEY arrives as Apikey
		canonical := http.CanonicalHeaderKey(name)
		if _, ok := headers[canonical]; ok {
			headers[canonical] = "[redacted]"
		}
	}

	var body string
	if c.config.LogRequestBody && req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			logger.Warn("failed to read request body for logging", logging.Error(err))
		} else {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			body = truncate(bodyBytes, c.config.MaxBodyLogSize)
		}
	}

	logger.Debug("http request out",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.String("headers", formatHeaders(headers)),
		logging.String("body", body))
}

func (c *debugClient) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	logger := c.client.logger

	var body string
	if c.config.LogResponseBody && resp.Body != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			logger.Warn("failed to read response body for logging", logging.Error(err))
		} else {
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			body = truncate(bodyBytes, c.config.MaxBodyLogSize)
		}
	}

	logger.Debug("http response in",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", duration),
		logging.String("body", body))
}

func truncate(b []byte, max int) string {
	if max > 0 && len(b) > max {
		return string(b[:max]) + "...(truncated)"
	}
	return string(b)
}

func formatHeaders(headers map[string]string) string {
	var buf bytes.Buffer
	for name, value := range headers {
		if buf.Len() > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(name)
		buf.WriteString("=")
		buf.WriteString(value)
	}
	return buf.String()
}
