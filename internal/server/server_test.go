package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finch-money/finch/internal/app"
	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/storage/localfs"
)

// newTestServer builds a server over a file store in a temp directory.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithConfig(t, nil)
}

func newTestServerWithConfig(t *testing.T, mutate func(*common.Config)) *Server {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Driver = "file"
	config.Storage.DataPath = t.TempDir()
	config.Logging.Level = "error"
	if mutate != nil {
		mutate(config)
	}

	logger := common.NewLogger(config.Logging.Level)
	store, err := localfs.NewManager(logger, config.Storage.DataPath)
	require.NoError(t, err)

	a, err := app.NewAppWithStorage(config, logger, store)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return NewServer(a)
}

// doJSON performs a request against the server's full middleware stack.
func doJSON(t *testing.T, s *Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestVersion(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/version", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body["version"])
}

func TestConfigEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/config", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "development", body["environment"])
	assert.Equal(t, "USD", body["display_currency"])
	assert.Equal(t, "file", body["storage_driver"])
	assert.Equal(t, false, body["advisor_enabled"])
}

func TestShutdownDisabledInProduction(t *testing.T) {
	s := newTestServerWithConfig(t, func(c *common.Config) {
		c.Environment = "production"
	})

	rec := doJSON(t, s, http.MethodPost, "/api/shutdown", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestShutdownSignalsChannel(t *testing.T) {
	s := newTestServer(t)
	ch := make(chan struct{}, 1)
	s.SetShutdownChannel(ch)

	rec := doJSON(t, s, http.MethodPost, "/api/shutdown", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown channel was not signaled")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/shutdown", nil, "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodOptions, "/api/accounts", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDEcho(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Correlation-ID"))
}

func TestCorrelationIDGenerated(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil, "")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestUnknownAccountReturnsNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/accounts/acc_nope", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "not_found", body.Code)
}
