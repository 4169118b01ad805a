package n8n_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate/n8n-mcp/engine/n8n"
)

func TestConcurrencyBound(t *testing.T) {
	t.Run("Should queue excess requests instead of failing them", func(t *testing.T) {
		var inFlight, maxInFlight atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cur := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				seen := maxInFlight.Load()
				if cur <= seen || maxInFlight.CompareAndSwap(seen, cur) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			writeJSON(w, map[string]any{"id": "wf-1", "name": "wf"})
		}))
		defer srv.Close()

		cfg := testConfig(srv.URL)
		cfg.N8N.MaxConcurrent = 2
		cfg.Cache.Enabled = false
		client, err := n8n.NewClient(cfg, n8n.WithRetryBackoffBase(time.Millisecond))
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 6)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = client.GetWorkflow(testCtx(), fmt.Sprintf("wf-%d", i))
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			assert.NoError(t, err, "request %d", i)
		}
		assert.LessOrEqual(t, maxInFlight.Load(), int32(2),
			"in-flight requests must never exceed the configured bound")
	})
	t.Run("Should release the slot when a request fails", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		cfg := testConfig(srv.URL)
		cfg.N8N.MaxConcurrent = 1
		cfg.N8N.MaxRetries = 0
		client, err := n8n.NewClient(cfg, n8n.WithRetryBackoffBase(time.Millisecond))
		require.NoError(t, err)

		// With a single slot, a leaked acquisition would block every
		// subsequent request; three sequential failures prove release on the
		// error path.
		for i := 0; i < 3; i++ {
			_, err := client.GetWorkflow(testCtx(), "missing")
			require.Error(t, err)
			assert.True(t, n8n.IsStatus(err, http.StatusNotFound))
		}
		assert.Equal(t, int32(3), calls.Load())
	})
}
