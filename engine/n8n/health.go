package n8n

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/flowgate/n8n-mcp/engine/core"
)

const (
	probeBackoffBase = 500 * time.Millisecond
	probeMaxRetries  = 3
)

// HealthStatus reports reachability of the n8n instance. It is a status
// value, not an error: health checks never raise.
type HealthStatus struct {
	Status       string
	ResponseTime time.Duration
	Timestamp    time.Time
	Error        string
	Snapshot     ConfigSnapshot
}

// ConfigSnapshot is the non-sensitive slice of gateway configuration
// reported by health checks.
type ConfigSnapshot struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	CacheEnabled bool
}

// Health probes the instance with the lowest-cost call available: a
// single-item workflow listing. Any successful response means healthy.
func (c *Client) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Timestamp: time.Now().UTC(),
		Snapshot:  c.snapshot,
	}
	start := time.Now()
	_, err := c.ListWorkflows(ctx, ListWorkflowsOptions{Limit: 1})
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.Status = "error"
		status.Error = core.RedactError(err)
		return status
	}
	status.Status = "ok"
	return status
}

// ProbeReady polls the instance until it answers, retrying transient
// failures with exponential backoff. Definitive failures, a bad API key for
// one, surface immediately. A probe failure means the instance was not
// reachable within the backoff budget; it says nothing about future calls.
func (c *Client) ProbeReady(ctx context.Context) error {
	backoff := retry.WithMaxRetries(probeMaxRetries, retry.NewExponential(c.probeBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := c.ListWorkflows(ctx, ListWorkflowsOptions{Limit: 1})
		if err == nil {
			return nil
		}
		if isTransientProbeFailure(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func isTransientProbeFailure(err error) bool {
	var reqErr *core.RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	switch reqErr.Status {
	case 0, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
