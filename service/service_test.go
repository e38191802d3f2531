package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}

func TestHealthzHandler(t *testing.T) {
	h := newHealthzServer(testLogger(), "127.0.0.1:0")

	tests := []struct {
		method string
		status int
		body   string
	}{
		{method: http.MethodGet, status: http.StatusOK, body: "OK"},
		{method: http.MethodHead, status: http.StatusOK},
		{method: http.MethodPost, status: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.server.Handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/healthz", nil))

			res := rec.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.status, res.StatusCode)
			if tt.body != "" {
				body, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(body))
			}
		})
	}
}

func TestServiceEnabled(t *testing.T) {
	s := New(testLogger(), opmetrics.CLIConfig{Enabled: true, ListenAddr: "127.0.0.1", ListenPort: 7300})
	require.True(t, s.Enabled())
	assert.Equal(t, "127.0.0.1:8080", s.Healthz.server.Addr)
	assert.Equal(t, "127.0.0.1:7300", s.Metrics.server.Addr)
}

func TestServiceDisabled(t *testing.T) {
	s := New(testLogger(), opmetrics.CLIConfig{Enabled: false})
	assert.False(t, s.Enabled())
	assert.Nil(t, s.Healthz)
	assert.Nil(t, s.Metrics)

	s.Start(context.Background())

	// Shutdown of a service that never started is a no-op
	assert.NotPanics(t, s.Shutdown)
}
