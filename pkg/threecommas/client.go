// Package threecommas implements the typed client for the 3Commas trading
// platform: request signing, the versioned REST transport, the endpoint
// catalog, and streaming channel subscriptions.
package threecommas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veiloq/threecommas-connector/pkg/common"
	"github.com/veiloq/threecommas-connector/pkg/logging"
	"github.com/veiloq/threecommas-connector/pkg/ratelimit"
	"github.com/veiloq/threecommas-connector/pkg/websocket"
)

const (
	// DefaultBaseURL is the platform's REST origin
	DefaultBaseURL = "https://api.3commas.io"

	// DefaultStreamURL is the platform's streaming origin
	DefaultStreamURL = "wss://ws.3commas.io/websocket"

	headerAPIKey     = "APIKEY"
	headerSignature  = "Signature"
	headerForcedMode = "Forced-Mode"
)

// APIVersion selects the REST path prefix a request is routed under.
type APIVersion int

const (
	// V1 routes under /public/api/ver1
	V1 APIVersion = 1

	// V2 routes under /public/api/ver2
	V2 APIVersion = 2
)

// Prefix returns the path prefix for the version
func (v APIVersion) Prefix() string {
	switch v {
	case V2:
		return "/public/api/ver2"
	default:
		return "/public/api/ver1"
	}
}

// ForcedMode instructs the platform to treat requests as paper or real
// trading regardless of the account default.
type ForcedMode string

const (
	ForcedModeReal  ForcedMode = "real"
	ForcedModePaper ForcedMode = "paper"
)

// ErrorHandler observes every structured error the platform returns, before
// the calling method fails with it. Returning a non-nil error replaces the
// *APIError as the method's error (translation); returning nil keeps it.
// Custom retry policy belongs here, not in the transport.
type ErrorHandler func(apiErr *APIError) error

// Options configures a Client. Credentials are immutable for the client's
// lifetime and are never logged or sent on the wire except via the signature.
type Options struct {
	// APIKey identifies the account; sent in the APIKEY header
	APIKey string

	// Secret keys the request signature. An empty secret restricts the
	// client to anonymous endpoints.
	Secret string

	// Timeout bounds each REST request
	Timeout time.Duration

	// ForcedMode, when set, is forwarded on every request
	ForcedMode ForcedMode

	// ErrorHandler, when set, observes platform-rejected requests
	ErrorHandler ErrorHandler

	// BaseURL and StreamURL override the platform origins (tests, proxies)
	BaseURL   string
	StreamURL string

	// RequestsPerSecond caps the outbound REST rate
	RequestsPerSecond int

	// Debug logs every request and response at debug level, with
	// credential-bearing headers redacted and bodies truncated
	Debug bool

	Logger logging.Logger
}

// NewOptions returns default client options with reasonable values
func NewOptions() *Options {
	return &Options{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
		BaseURL:           DefaultBaseURL,
		StreamURL:         DefaultStreamURL,
	}
}

// WithCredentials sets the API key pair and returns the options for chaining
func (o *Options) WithCredentials(apiKey, secret string) *Options {
	o.APIKey = apiKey
	o.Secret = secret
	return o
}

// Client is a 3Commas API client. One instance owns one HTTP transport
// configuration and at most one streaming socket. REST methods are safe to
// call concurrently.
type Client struct {
	options *Options
	http    common.HTTPClient
	stream  websocket.ChannelConnector
	logger  logging.Logger
}

// NewClient creates a client from the given options. Nil options produce an
// anonymous client limited to public endpoints.
func NewClient(options *Options) (*Client, error) {
	if options == nil {
		options = NewOptions()
	}
	if options.Timeout <= 0 {
		options.Timeout = 30 * time.Second
	}
	if options.RequestsPerSecond <= 0 {
		options.RequestsPerSecond = 10
	}
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	if options.StreamURL == "" {
		options.StreamURL = DefaultStreamURL
	}
	if options.Logger == nil {
		options.Logger = logging.NewNopLogger()
	}
	if options.ForcedMode != "" && options.ForcedMode != ForcedModeReal && options.ForcedMode != ForcedModePaper {
		return nil, fmt.Errorf("%w: unknown forced mode %q", ErrInvalidOptions, options.ForcedMode)
	}

	httpConfig := &common.ClientConfig{
		Timeout: options.Timeout,
		RateLimit: ratelimit.Rate{
			Limit:    options.RequestsPerSecond,
			Interval: time.Second,
		},
		Logger: options.Logger,
	}
	var httpClient common.HTTPClient
	if options.Debug {
		httpClient = common.NewDebugHTTPClient(&common.DebugClientConfig{
			ClientConfig:    httpConfig,
			LogRequestBody:  true,
			LogResponseBody: true,
			MaxBodyLogSize:  common.DefaultMaxBodyLogSize,
		})
	} else {
		httpClient = common.NewHTTPClient(httpConfig)
	}

	secret := options.Secret
	return &Client{
		options: options,
		http:    httpClient,
		stream: websocket.NewConnector(websocket.Config{
			URL:    options.StreamURL,
			APIKey: options.APIKey,
			Signer: func(path string) string {
				return Sign(secret, path, "")
			},
			Logger: options.Logger,
		}),
		logger: options.Logger,
	}, nil
}

// CustomRequest is a generic passthrough for undocumented or future
// endpoints. For GET the payload is serialized into the query string; for
// every other method it is sent as the JSON body. The response body is
// decoded into result when result is non-nil.
func (c *Client) CustomRequest(ctx context.Context, method string, version APIVersion, path string, payload map[string]interface{}, result interface{}) error {
	if method == http.MethodGet {
		query := url.Values{}
		for key, value := range payload {
			query.Set(key, fmt.Sprint(value))
		}
		return c.get(ctx, version, path, query, result)
	}
	return c.submit(ctx, method, version, path, payload, result)
}

// get executes a GET request. The query string becomes part of the signed
// relative URL, so signing is the last step before dispatch.
func (c *Client) get(ctx context.Context, version APIVersion, path string, query url.Values, result interface{}) error {
	relative := version.Prefix() + path
	if encoded := query.Encode(); encoded != "" {
		relative += "?" + encoded
	}

	req, err := http.NewRequest(http.MethodGet, c.options.BaseURL+relative, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req, Sign(c.options.Secret, relative, ""))

	return c.dispatch(ctx, req, result)
}

// submit executes a body-carrying request. The API key and secret are merged
// into the payload for signing, then the secret is stripped before the body
// goes on the wire: credentials travel only via the signature.
func (c *Client) submit(ctx context.Context, method string, version APIVersion, path string, payload interface{}, result interface{}) error {
	relative := version.Prefix() + path

	body, err := payloadMap(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	body["api_key"] = c.options.APIKey
	body["secret"] = c.options.Secret

	signed, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	signature := Sign(c.options.Secret, relative, string(signed))

	delete(body, "secret")
	wire, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest(method, c.options.BaseURL+relative, bytes.NewReader(wire))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, signature)

	return c.dispatch(ctx, req, result)
}

// setHeaders attaches the identity, signature and optional forced-mode
// headers
func (c *Client) setHeaders(req *http.Request, signature string) {
	req.Header.Set(headerAPIKey, c.options.APIKey)
	req.Header.Set(headerSignature, signature)
	if c.options.ForcedMode != "" {
		req.Header.Set(headerForcedMode, string(c.options.ForcedMode))
	}
}

// dispatch sends the request and normalizes the response. Success decodes
// the body into result untouched; a structured error body is surfaced as an
// *APIError after the optional error handler has observed it.
func (c *Client) dispatch(ctx context.Context, req *http.Request, result interface{}) error {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, raw)
		if apiErr == nil {
			return fmt.Errorf("request rejected: %s", resp.Status)
		}
		if c.options.ErrorHandler != nil {
			if handled := c.options.ErrorHandler(apiErr); handled != nil {
				return handled
			}
		}
		return apiErr
	}

	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// payloadMap flattens an arbitrary payload value into a string-keyed map so
// credentials can be merged in before signing. Map keys are serialized in
// sorted order by encoding/json, keeping the signed message deterministic.
func payloadMap(payload interface{}) (map[string]interface{}, error) {
	body := make(map[string]interface{})
	if payload == nil {
		return body, nil
	}

	if m, ok := payload.(map[string]interface{}); ok {
		for key, value := range m {
			body[key] = value
		}
		return body, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// Ping checks connectivity with the platform. Anonymous: works without
// credentials.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, V1, "/ping", nil, nil)
}

// ServerTime is the platform's clock reading
type ServerTime struct {
	ServerTime int64 `json:"server_time"`
}

// Time returns the platform's current server time. Anonymous.
func (c *Client) Time(ctx context.Context) (*ServerTime, error) {
	var out ServerTime
	if err := c.get(ctx, V1, "/time", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
