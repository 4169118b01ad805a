package n8n

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/pkg/logger"
)

const (
	webhookWaitTimeout   = 60 * time.Second
	webhookNoWaitTimeout = 5 * time.Second
)

// WebhookRequest describes a direct webhook invocation. The target URL and
// everything about the request is caller-supplied.
type WebhookRequest struct {
	URL             string
	Method          string
	Headers         map[string]string
	Data            map[string]any
	WaitForResponse bool
}

// WebhookResult carries the raw remote response of a webhook trigger.
type WebhookResult struct {
	Status int
	Body   string
}

// TriggerWebhook issues a single direct HTTP call to the caller-supplied
// webhook URL. This path deliberately bypasses the authenticated channel and
// the retry policy: webhooks are not idempotent and the target is arbitrary.
// Non-2xx responses are failures, without retry.
func (c *Client) TriggerWebhook(ctx context.Context, req WebhookRequest) (*WebhookResult, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	timeout := webhookNoWaitTimeout
	if req.WaitForResponse {
		timeout = webhookWaitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r := c.webhook.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if req.Data != nil && method != http.MethodGet {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.Data)
	}

	resp, err := executeRequest(r, method, req.URL)
	if err != nil {
		return nil, &core.RequestError{Method: method, Path: req.URL, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &core.RequestError{
			Status:  resp.StatusCode(),
			Method:  method,
			Path:    req.URL,
			Message: fmt.Sprintf("webhook returned status %d", resp.StatusCode()),
			Body:    resp.String(),
		}
	}

	log := logger.FromContext(ctx)
	log.Debug("webhook triggered", "method", method, "url", req.URL, "status", resp.StatusCode())
	return &WebhookResult{Status: resp.StatusCode(), Body: resp.String()}, nil
}
