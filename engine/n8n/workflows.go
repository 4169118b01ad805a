package n8n

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/flowgate/n8n-mcp/pkg/logger"
)

// MaxPageSize bounds the page size accepted by the n8n listing endpoints.
const MaxPageSize = 100

// CreateWorkflow creates a new workflow on the instance and returns the
// created record, identifier included.
func (c *Client) CreateWorkflow(ctx context.Context, wf *Workflow) (*Workflow, error) {
	var created Workflow
	if err := c.doRequest(ctx, http.MethodPost, "/workflows", wf, &created, nil); err != nil {
		return nil, err
	}
	c.cache.invalidate(classWorkflows)
	return &created, nil
}

// GetWorkflow fetches a workflow by id, serving from the response cache when
// enabled.
func (c *Client) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	cacheKey := "get:" + id
	if cached, ok := c.cache.get(classWorkflows, cacheKey); ok {
		if wf, ok := cached.(*Workflow); ok {
			return wf, nil
		}
	}
	var wf Workflow
	if err := c.doRequest(ctx, http.MethodGet, "/workflows/"+id, nil, &wf, nil); err != nil {
		return nil, err
	}
	c.cache.set(classWorkflows, cacheKey, &wf)
	return &wf, nil
}

// UpdateWorkflow submits a full workflow update with the primary verb and,
// when the instance rejects the verb with the configured fallback status,
// retries the same logical update once with the secondary verb.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, wf *Workflow) (*Workflow, error) {
	return c.UpdateWorkflowFields(ctx, id, updateBody(wf))
}

// UpdateWorkflowFields is UpdateWorkflow for a partial field set. The verb
// fallback applies identically; the fallback is attempted at most once and
// only on the configured status.
func (c *Client) UpdateWorkflowFields(ctx context.Context, id string, fields map[string]any) (*Workflow, error) {
	updated, err := c.submitWorkflowUpdateBody(ctx, id, c.updatePrimary, fields)
	if err != nil && IsStatus(err, c.fallbackStatus) {
		log := logger.FromContext(ctx)
		log.Debug("workflow update verb rejected, falling back",
			"workflow_id", id, "primary", c.updatePrimary, "secondary", c.updateSecondary)
		updated, err = c.submitWorkflowUpdateBody(ctx, id, c.updateSecondary, fields)
	}
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(classWorkflows)
	return updated, nil
}

// DeleteWorkflow removes a workflow from the instance.
func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/workflows/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(classWorkflows)
	return nil
}

// ListWorkflows returns one page of workflows. The cursor is opaque and must
// be fed back verbatim; an empty cursor requests the first page.
func (c *Client) ListWorkflows(ctx context.Context, opts ListWorkflowsOptions) (*Page[Workflow], error) {
	query := map[string]string{"limit": strconv.Itoa(clampLimit(opts.Limit))}
	if opts.Cursor != "" {
		query["cursor"] = opts.Cursor
	}
	if opts.Active != nil {
		query["active"] = strconv.FormatBool(*opts.Active)
	}
	if len(opts.Tags) > 0 {
		query["tags"] = strings.Join(opts.Tags, ",")
	}

	cacheKey := "list:" + queryKey(query)
	if cached, ok := c.cache.get(classWorkflows, cacheKey); ok {
		if page, ok := cached.(*Page[Workflow]); ok {
			return page, nil
		}
	}
	var page Page[Workflow]
	if err := c.doRequest(ctx, http.MethodGet, "/workflows", nil, &page, query); err != nil {
		return nil, err
	}
	c.cache.set(classWorkflows, cacheKey, &page)
	return &page, nil
}

// SetActive flips a workflow's active flag through a three-stage fallback
// chain. Each stage runs at most once and the first success wins:
//
//  1. primary verb with a minimal payload carrying only the flag
//  2. on 400/405: fetch the full workflow, set the flag, primary verb with
//     the full representation
//  3. on failure: secondary verb with the minimal payload
//
// Exhausting all stages returns the final failure.
func (c *Client) SetActive(ctx context.Context, id string, active bool) (*Workflow, error) {
	log := logger.FromContext(ctx)
	minimal := map[string]any{"active": active}

	updated, err := c.submitWorkflowUpdateBody(ctx, id, c.updatePrimary, minimal)
	if err == nil {
		c.cache.invalidate(classWorkflows)
		return updated, nil
	}
	if !IsStatus(err, http.StatusBadRequest) && !IsStatus(err, http.StatusMethodNotAllowed) {
		return nil, err
	}

	log.Debug("minimal activation update rejected, retrying with full workflow", "workflow_id", id)
	full, fetchErr := c.GetWorkflow(ctx, id)
	if fetchErr == nil {
		// GetWorkflow may return the cached record; never mutate it. The
		// flag goes into a fresh body alongside the writable fields.
		body := updateBody(full)
		body["active"] = active
		updated, err = c.submitWorkflowUpdateBody(ctx, id, c.updatePrimary, body)
		if err == nil {
			c.cache.invalidate(classWorkflows)
			return updated, nil
		}
	} else {
		log.Debug("full workflow fetch failed during activation", "workflow_id", id, "error", fetchErr)
	}

	log.Debug("falling back to secondary verb for activation", "workflow_id", id, "verb", c.updateSecondary)
	updated, err = c.submitWorkflowUpdateBody(ctx, id, c.updateSecondary, minimal)
	if err != nil {
		return nil, err
	}
	c.cache.invalidate(classWorkflows)
	return updated, nil
}

// updateBody strips the representation down to the writable fields; the n8n
// update endpoints reject read-only ones.
func updateBody(wf *Workflow) map[string]any {
	body := map[string]any{
		"name":        wf.Name,
		"nodes":       wf.Nodes,
		"connections": wf.Connections,
	}
	if wf.Settings != nil {
		body["settings"] = wf.Settings
	}
	return body
}

func (c *Client) submitWorkflowUpdateBody(ctx context.Context, id, method string, body any) (*Workflow, error) {
	var updated Workflow
	if err := c.doRequest(ctx, method, "/workflows/"+id, body, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// queryKey renders query params into a stable cache key.
func queryKey(query map[string]string) string {
	parts := make([]string, 0, len(query))
	for _, k := range []string{"limit", "cursor", "active", "tags", "workflowId", "status", "includeData"} {
		if v, ok := query[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
	}
	return strings.Join(parts, "&")
}
