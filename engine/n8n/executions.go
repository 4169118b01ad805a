package n8n

import (
	"context"
	"net/http"
	"strconv"
)

// GetExecution fetches one execution by id. Result data is only included
// when includeData is set; it can be large.
func (c *Client) GetExecution(ctx context.Context, id string, includeData bool) (*Execution, error) {
	query := map[string]string{}
	if includeData {
		query["includeData"] = "true"
	}
	cacheKey := "get:" + id + ":" + strconv.FormatBool(includeData)
	if cached, ok := c.cache.get(classExecutions, cacheKey); ok {
		if exec, ok := cached.(*Execution); ok {
			return exec, nil
		}
	}
	var exec Execution
	if err := c.doRequest(ctx, http.MethodGet, "/executions/"+id, nil, &exec, query); err != nil {
		return nil, err
	}
	c.cache.set(classExecutions, cacheKey, &exec)
	return &exec, nil
}

// ListExecutions returns one page of executions, optionally filtered by
// workflow and status.
func (c *Client) ListExecutions(ctx context.Context, opts ListExecutionsOptions) (*Page[Execution], error) {
	query := map[string]string{"limit": strconv.Itoa(clampLimit(opts.Limit))}
	if opts.Cursor != "" {
		query["cursor"] = opts.Cursor
	}
	if opts.WorkflowID != "" {
		query["workflowId"] = opts.WorkflowID
	}
	if opts.Status != "" {
		query["status"] = opts.Status
	}

	cacheKey := "list:" + queryKey(query)
	if cached, ok := c.cache.get(classExecutions, cacheKey); ok {
		if page, ok := cached.(*Page[Execution]); ok {
			return page, nil
		}
	}
	var page Page[Execution]
	if err := c.doRequest(ctx, http.MethodGet, "/executions", nil, &page, query); err != nil {
		return nil, err
	}
	c.cache.set(classExecutions, cacheKey, &page)
	return &page, nil
}

// DeleteExecution removes an execution record from the instance.
func (c *Client) DeleteExecution(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/executions/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(classExecutions)
	return nil
}
