package n8n_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/engine/n8n"
)

func TestTriggerWebhook(t *testing.T) {
	t.Run("Should send the caller-supplied method, headers, and body", func(t *testing.T) {
		var gotMethod, gotHeader string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotHeader = r.Header.Get("X-Custom")
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{"received":true}`))
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		result, err := client.TriggerWebhook(testCtx(), n8n.WebhookRequest{
			URL:             srv.URL + "/webhook/order",
			Method:          http.MethodPut,
			Headers:         map[string]string{"X-Custom": "yes"},
			Data:            map[string]any{"item": "book"},
			WaitForResponse: true,
		})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "yes", gotHeader)
		assert.Equal(t, map[string]any{"item": "book"}, gotBody)
		assert.Equal(t, http.StatusOK, result.Status)
		assert.Contains(t, result.Body, "received")
	})
	t.Run("Should default to POST and skip the body on GET", func(t *testing.T) {
		var methods []string
		var bodyLen int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			bodyLen = r.ContentLength
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		_, err := client.TriggerWebhook(testCtx(), n8n.WebhookRequest{
			URL: srv.URL + "/webhook/ping", WaitForResponse: true,
		})
		require.NoError(t, err)

		_, err = client.TriggerWebhook(testCtx(), n8n.WebhookRequest{
			URL:    srv.URL + "/webhook/ping",
			Method: http.MethodGet,
			Data:   map[string]any{"ignored": true},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{http.MethodPost, http.MethodGet}, methods)
		assert.LessOrEqual(t, bodyLen, int64(0))
	})
	t.Run("Should not send the API key to webhook targets", func(t *testing.T) {
		var gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-N8N-API-KEY")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		_, err := client.TriggerWebhook(testCtx(), n8n.WebhookRequest{URL: srv.URL + "/webhook/ping", WaitForResponse: true})
		require.NoError(t, err)
		assert.Empty(t, gotKey)
	})
	t.Run("Should fail on non-2xx without retrying", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			http.Error(w, "webhook not registered", http.StatusNotFound)
		}))
		defer srv.Close()
		client := newTestClient(t, srv.URL)

		_, err := client.TriggerWebhook(testCtx(), n8n.WebhookRequest{URL: srv.URL + "/webhook/missing", WaitForResponse: true})
		require.Error(t, err)
		var reqErr *core.RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Equal(t, http.StatusNotFound, reqErr.Status)
		assert.Equal(t, 1, calls)
	})
}
