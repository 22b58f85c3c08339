package common

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/threecommas-connector/pkg/logging"
	"github.com/veiloq/threecommas-connector/pkg/ratelimit"
)

// recordingLogger captures every entry as a flat string for assertions
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

func newRecordingDebugClient(t *testing.T) (*recordingLogger, HTTPClient) {
	t.Helper()

	rec := &recordingLogger{}
	client := NewDebugHTTPClient(&DebugClientConfig{
		ClientConfig: &ClientConfig{
			Timeout:   5 * time.Second,
			RateLimit: ratelimit.Rate{Limit: 10, Interval: time.Second},
			Logger:    rec,
		},
		LogRequestBody:  true,
		LogResponseBody: true,
		MaxBodyLogSize:  DefaultMaxBodyLogSize,
	})
	return rec, client
}

func TestDebugClientRedactsCredentialHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	rec, client := newRecordingDebugClient(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/ping", nil)
	require.NoError(t, err)
	req.Header.Set("APIKEY", "live-key")
	req.Header.Set("Signature", "deadbeef0123")

	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	logs := rec.joined()
	assert.Contains(t, logs, "http request out")
	assert.Contains(t, logs, "[redacted]")
	assert.NotContains(t, logs, "live-key")
	assert.NotContains(t, logs, "deadbeef0123")
}

func TestDebugClientTruncatesLoggedBodies(t *testing.T) {
	large := strings.Repeat("x", DefaultMaxBodyLogSize+100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(large))
	}))
	t.Cleanup(server.Close)

	rec, client := newRecordingDebugClient(t)

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	logs := rec.joined()
	assert.Contains(t, logs, "...(truncated)")
	assert.NotContains(t, logs, large)
}
