package threecommas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/threecommas-connector/pkg/logging"
)

const (
	testAPIKey = "test-key"
	testSecret = "test-secret"
)

// capturedRequest records what the client actually put on the wire
type capturedRequest struct {
	method string
	uri    string
	header http.Header
	body   []byte
}

// newTestClient points a credentialed client at a stub server that answers
// every request with the given status and body
func newTestClient(t *testing.T, status int, response string, captured *capturedRequest) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.method = r.Method
			captured.uri = r.URL.RequestURI()
			captured.header = r.Header.Clone()
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			captured.body = body
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	options := NewOptions().WithCredentials(testAPIKey, testSecret)
	options.BaseURL = server.URL

	client, err := NewClient(options)
	require.NoError(t, err)
	return client
}

func TestPingSignsBareRelativePath(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, `{}`, &captured)

	require.NoError(t, client.Ping(context.Background()))

	assert.Equal(t, http.MethodGet, captured.method)
	assert.Equal(t, "/public/api/ver1/ping", captured.uri)
	assert.Empty(t, captured.body)
	assert.Equal(t, testAPIKey, captured.header.Get("APIKEY"))
	assert.Equal(t, Sign(testSecret, "/public/api/ver1/ping", ""), captured.header.Get("Signature"))
}

func TestAnonymousClientSendsEmptySignature(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.header = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	options := NewOptions()
	options.BaseURL = server.URL
	client, err := NewClient(options)
	require.NoError(t, err)

	require.NoError(t, client.Ping(context.Background()))
	assert.Empty(t, captured.header.Get("Signature"))
}

func TestGetSignsQueryStringAndSendsNoBody(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, `[]`, &captured)

	_, err := client.ListDeals(context.Background(), &DealsListParams{
		BotID: 7,
		Scope: "active",
		Limit: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, captured.method)
	assert.Equal(t, "/public/api/ver1/deals?bot_id=7&limit=25&scope=active", captured.uri)
	assert.Empty(t, captured.body)

	// The signed message is exactly the relative URI the request was sent with
	assert.Equal(t, Sign(testSecret, captured.uri, ""), captured.header.Get("Signature"))
}

func TestGetDealDecodesPlatformPayload(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, `{
		"id": 42,
		"bot_id": 7,
		"pair": "USDT_BTC",
		"status": "bought",
		"finished?": false,
		"cancellable?": true,
		"take_profit": "1.5",
		"bought_average_price": "64250.01",
		"created_at": "2026-01-05T09:30:00.000Z",
		"updated_at": "2026-01-05T09:31:00.000Z",
		"closed_at": null
	}`, &captured)

	deal, err := client.GetDeal(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "/public/api/ver1/deals/42/show", captured.uri)
	assert.Equal(t, int64(42), deal.ID)
	assert.False(t, deal.Finished)
	assert.True(t, deal.Cancellable)
	assert.True(t, deal.TakeProfit.Equal(decimal.RequireFromString("1.5")))
	require.NotNil(t, deal.BoughtAveragePrice)
	assert.True(t, deal.BoughtAveragePrice.Equal(decimal.RequireFromString("64250.01")))
	assert.Nil(t, deal.ClosedAt)
}

func TestSubmitSignsWithSecretButNeverSendsIt(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, `{"id": 42}`, &captured)

	takeProfit := decimal.RequireFromString("2.5")
	_, err := client.UpdateDeal(context.Background(), 42, &UpdateDealParams{
		TakeProfit: &takeProfit,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, captured.method)
	assert.Equal(t, "/public/api/ver1/deals/42/update_deal", captured.uri)
	assert.Equal(t, "application/json", captured.header.Get("Content-Type"))

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.body, &wire))
	assert.Equal(t, testAPIKey, wire["api_key"])
	assert.NotContains(t, wire, "secret")
	assert.NotContains(t, string(captured.body), testSecret)

	// The signature covers the body with the secret merged back in. Map keys
	// serialize in sorted order, so re-adding it reproduces the signed bytes.
	wire["secret"] = testSecret
	signed, err := json.Marshal(wire)
	require.NoError(t, err)
	assert.Equal(t, Sign(testSecret, captured.uri, string(signed)), captured.header.Get("Signature"))
}

func TestForcedModeHeader(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.header = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	options := NewOptions().WithCredentials(testAPIKey, testSecret)
	options.BaseURL = server.URL
	options.ForcedMode = ForcedModePaper
	client, err := NewClient(options)
	require.NoError(t, err)

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "paper", captured.header.Get("Forced-Mode"))
}

func TestNewClientRejectsUnknownForcedMode(t *testing.T) {
	options := NewOptions()
	options.ForcedMode = "sandbox"

	_, err := NewClient(options)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestErrorBodySurfacedAsAPIError(t *testing.T) {
	client := newTestClient(t, http.StatusUnprocessableEntity, `{
		"error": "record_invalid",
		"error_description": "Invalid parameters",
		"error_attributes": {"take_profit": ["must be greater than 0"]}
	}`, nil)

	_, err := client.GetDeal(context.Background(), 42)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "record_invalid", apiErr.Name)
	assert.Equal(t, "Invalid parameters", apiErr.Description)
	assert.Contains(t, apiErr.Attributes, "take_profit")
}

func TestErrorHandlerObservesEachFailureOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "signature_invalid"}`))
	}))
	t.Cleanup(server.Close)

	calls := 0
	options := NewOptions().WithCredentials(testAPIKey, testSecret)
	options.BaseURL = server.URL
	options.ErrorHandler = func(apiErr *APIError) error {
		calls++
		assert.Equal(t, "signature_invalid", apiErr.Name)
		return nil
	}
	client, err := NewClient(options)
	require.NoError(t, err)

	err = client.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	// A nil return keeps the original *APIError as the method's error
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestErrorHandlerTranslatesError(t *testing.T) {
	translated := assert.AnError

	options := NewOptions().WithCredentials(testAPIKey, testSecret)
	options.ErrorHandler = func(apiErr *APIError) error {
		return translated
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate_limit_exceeded"}`))
	}))
	t.Cleanup(server.Close)
	options.BaseURL = server.URL

	client, err := NewClient(options)
	require.NoError(t, err)

	err = client.Ping(context.Background())
	assert.ErrorIs(t, err, translated)
}

// recordingLogger captures log entries as flat strings for assertions
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	b.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	l.entries = append(l.entries, b.String())
}

func (l *recordingLogger) Debug(msg string, fields ...logging.Field) { l.record(msg, fields...) }
func (l *recordingLogger) Info(msg string, fields ...logging.Field)  { l.record(msg, fields...) }
func (l *recordingLogger) Warn(msg string, fields ...logging.Field)  { l.record(msg, fields...) }
func (l *recordingLogger) Error(msg string, fields ...logging.Field) { l.record(msg, fields...) }

func (l *recordingLogger) WithFields(...logging.Field) logging.Logger { return l }

func (l *recordingLogger) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.entries, "\n")
}

func TestDebugModeLogsRequestsWithCredentialsRedacted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	rec := &recordingLogger{}
	options := NewOptions().WithCredentials(testAPIKey, testSecret)
	options.BaseURL = server.URL
	options.Debug = true
	options.Logger = rec

	client, err := NewClient(options)
	require.NoError(t, err)
	require.NoError(t, client.Ping(context.Background()))

	logs := rec.joined()
	assert.Contains(t, logs, "http request out")
	assert.Contains(t, logs, "[redacted]")
	assert.NotContains(t, logs, testAPIKey)
	assert.NotContains(t, logs, testSecret)
	assert.NotContains(t, logs, Sign(testSecret, "/public/api/ver1/ping", ""))
}

func TestCustomRequestGetSerializesPayloadAsQuery(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, `{}`, &captured)

	err := client.CustomRequest(context.Background(), http.MethodGet, V2, "/smart_trades", map[string]interface{}{
		"account_id": 9,
		"status":     "active",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "/public/api/ver2/smart_trades?account_id=9&status=active", captured.uri)
	assert.Empty(t, captured.body)
}

func TestTimeDecodesServerClock(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, `{"server_time": 1767606600}`, &captured)

	serverTime, err := client.Time(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/public/api/ver1/time", captured.uri)
	assert.Equal(t, int64(1767606600), serverTime.ServerTime)
}
