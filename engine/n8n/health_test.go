package n8n_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate/n8n-mcp/engine/n8n"
)

func TestHealth(t *testing.T) {
	t.Run("Should report ok when the instance responds", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"data": []map[string]any{}})
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		status := client.Health(testCtx())
		require.NotNil(t, status)
		assert.Equal(t, "ok", status.Status)
		assert.Empty(t, status.Error)
		assert.False(t, status.Timestamp.IsZero())
		assert.Equal(t, srv.URL+"/api/v1", status.Snapshot.BaseURL)
	})
	t.Run("Should report an error status instead of raising", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		status := client.Health(testCtx())
		require.NotNil(t, status)
		assert.Equal(t, "error", status.Status)
		assert.NotEmpty(t, status.Error)
	})
	t.Run("Should never leak the API key through the error field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `invalid api_key: secret-value`, http.StatusUnauthorized)
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		status := client.Health(testCtx())
		assert.NotContains(t, status.Error, "secret-value")
	})
}

func TestProbeReady(t *testing.T) {
	t.Run("Should succeed once the instance starts answering", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			writeJSON(w, map[string]any{"data": []map[string]any{}})
		}))
		defer srv.Close()
		cfg := testConfig(srv.URL)
		cfg.N8N.MaxRetries = 0
		client, err := n8n.NewClient(cfg, n8n.WithRetryBackoffBase(time.Millisecond))
		require.NoError(t, err)

		require.NoError(t, client.ProbeReady(testCtx()))
		assert.Equal(t, 2, calls)
	})
	t.Run("Should fail fast on a definitive failure", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		err := client.ProbeReady(testCtx())
		require.Error(t, err)
		assert.True(t, n8n.IsStatus(err, http.StatusUnauthorized))
		assert.Equal(t, 1, calls)
	})
	t.Run("Should give up after the backoff budget on persistent outage", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		cfg := testConfig(srv.URL)
		cfg.N8N.MaxRetries = 0
		client, err := n8n.NewClient(cfg, n8n.WithRetryBackoffBase(time.Millisecond))
		require.NoError(t, err)

		err = client.ProbeReady(testCtx())
		require.Error(t, err)
		assert.Equal(t, 4, calls, "initial attempt plus bounded retries")
	})
}
