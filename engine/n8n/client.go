package n8n

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/pkg/config"
	"github.com/flowgate/n8n-mcp/pkg/logger"
)

const apiVersionPath = "/api/v1"

// Client is the authenticated gateway to an n8n instance. It owns the HTTP
// channel, the retry/backoff policy for transient failures, the verb
// fallback for workflow updates and the optional response cache. It is safe
// for concurrent use; in-flight requests are bounded by a semaphore and
// excess callers queue.
type Client struct {
	http    *resty.Client
	webhook *resty.Client
	limiter *rate.Limiter
	sem     *semaphore.Weighted
	cache   *responseCache

	updatePrimary   string
	updateSecondary string
	fallbackStatus  int

	probeBase time.Duration

	snapshot ConfigSnapshot
}

// Option customizes client construction.
type Option func(*Client)

// WithUpdateVerbs overrides the primary/secondary verbs used for workflow
// updates and the status code that triggers the fallback. Real-world n8n
// deployments differ in which verb they accept.
func WithUpdateVerbs(primary, secondary string, fallbackStatus int) Option {
	return func(c *Client) {
		c.updatePrimary = primary
		c.updateSecondary = secondary
		c.fallbackStatus = fallbackStatus
	}
}

// WithRetryBackoffBase overrides the exponential backoff base delay. The
// wait before retry attempt k is base * 2^k. Tests use a small base.
func WithRetryBackoffBase(base time.Duration) Option {
	return func(c *Client) {
		c.http.SetRetryAfter(retryAfterFunc(base))
		c.http.SetRetryMaxWaitTime(base << 6)
		c.probeBase = base
	}
}

// NewClient builds a gateway from validated configuration.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	baseURL, err := buildBaseURL(cfg.N8N.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.N8N.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-N8N-API-KEY", string(cfg.N8N.APIKey)).
		SetRetryCount(cfg.N8N.MaxRetries).
		AddRetryCondition(transientRetryCondition).
		SetRetryAfter(retryAfterFunc(time.Second)).
		SetRetryMaxWaitTime(time.Second << 6)

	// The webhook channel is deliberately separate: unauthenticated, no
	// retries, caller-controlled target.
	webhookClient := resty.New().
		SetHeader("Accept", "application/json")

	client := &Client{
		http:            httpClient,
		webhook:         webhookClient,
		sem:             semaphore.NewWeighted(cfg.N8N.MaxConcurrent),
		updatePrimary:   http.MethodPut,
		updateSecondary: http.MethodPatch,
		fallbackStatus:  http.StatusMethodNotAllowed,
		probeBase:       probeBackoffBase,
		snapshot: ConfigSnapshot{
			BaseURL:      baseURL,
			Timeout:      cfg.N8N.Timeout,
			MaxRetries:   cfg.N8N.MaxRetries,
			CacheEnabled: cfg.Cache.Enabled,
		},
	}
	if cfg.RateLimit.Limit > 0 {
		every := cfg.RateLimit.Window / time.Duration(cfg.RateLimit.Limit)
		client.limiter = rate.NewLimiter(rate.Every(every), cfg.RateLimit.Limit)
	}
	if cfg.Cache.Enabled {
		cache, err := newResponseCache(cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to build response cache: %w", err)
		}
		client.cache = cache
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func buildBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid n8n base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("n8n base URL must be absolute with a host, got: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("n8n base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return strings.TrimSuffix(raw, "/") + apiVersionPath, nil
}

// transientRetryCondition marks a request retryable only for failures that
// are likely to succeed on resend: rate limiting, temporary unavailability,
// or no response received at all.
func transientRetryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

// retryAfterFunc computes the wait before retry attempt k as base * 2^k,
// k starting at 0 for the first retry.
func retryAfterFunc(base time.Duration) resty.RetryAfterFunc {
	return func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
		attempt := 1
		if resp != nil && resp.Request != nil && resp.Request.Attempt > 0 {
			attempt = resp.Request.Attempt
		}
		return base << (attempt - 1), nil
	}
}

// apiErrorBody is the heterogeneous error payload shape n8n returns.
type apiErrorBody struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	Hint        string `json:"hint,omitempty"`
}

func (b *apiErrorBody) text() string {
	if b == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if b.Message != "" {
		parts = append(parts, b.Message)
	}
	if b.Description != "" {
		parts = append(parts, b.Description)
	}
	return strings.Join(parts, ": ")
}

// doRequest issues one authenticated call against the instance, queuing on
// the concurrency bound and the rate limiter first. Failures come back as
// *core.RequestError for the classifier.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, query map[string]string) error {
	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.sem.Release(1)

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	req.SetError(&apiErrorBody{})

	resp, err := executeRequest(req, method, path)
	if err != nil {
		return &core.RequestError{Method: method, Path: path, Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return newRequestError(resp, method, path)
	}

	log := logger.FromContext(ctx)
	log.Debug("n8n API request completed", "method", method, "path", path, "status", resp.StatusCode())
	return nil
}

func (c *Client) acquire(ctx context.Context) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait canceled: %w", err)
		}
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("request slot wait canceled: %w", err)
	}
	return nil
}

func executeRequest(req *resty.Request, method, path string) (*resty.Response, error) {
	switch method {
	case http.MethodGet:
		return req.Get(path)
	case http.MethodPost:
		return req.Post(path)
	case http.MethodPut:
		return req.Put(path)
	case http.MethodPatch:
		return req.Patch(path)
	case http.MethodDelete:
		return req.Delete(path)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}
}

func newRequestError(resp *resty.Response, method, path string) *core.RequestError {
	reqErr := &core.RequestError{
		Status: resp.StatusCode(),
		Method: method,
		Path:   path,
	}
	if body, ok := resp.Error().(*apiErrorBody); ok {
		reqErr.Message = body.text()
	}
	raw := resp.String()
	if len(raw) > 2048 {
		raw = raw[:2048]
	}
	reqErr.Body = raw
	return reqErr
}

// IsStatus reports whether err is a remote failure with the given HTTP
// status.
func IsStatus(err error, status int) bool {
	var reqErr *core.RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return reqErr.Status == status
}
