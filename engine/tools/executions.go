package tools

import (
	"context"
	"fmt"

	"github.com/flowgate/n8n-mcp/engine/n8n"
)

func (h *handlers) getExecution() *Definition {
	return &Definition{
		Name:        "get_execution",
		Description: "Fetch one execution by ID",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Execution ID",
				},
				"includeData": map[string]any{
					"type":        "boolean",
					"default":     false,
					"description": "Include the execution result data; can be large",
				},
			},
			"required":             []any{"id"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			includeData, _ := boolArg(args, "includeData")
			exec, err := h.gateway.GetExecution(ctx, stringArg(args, "id"), includeData)
			if err != nil {
				return "", err
			}
			return formatExecution(exec, includeData), nil
		},
	}
}

func (h *handlers) listExecutions() *Definition {
	return &Definition{
		Name:        "list_executions",
		Description: "List executions with cursor pagination",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": n8n.MaxPageSize,
					"default": n8n.MaxPageSize,
				},
				"cursor": map[string]any{
					"type":        "string",
					"description": "Opaque cursor from a previous page; omit for the first page",
				},
				"workflowId": map[string]any{
					"type":        "string",
					"description": "Only executions of this workflow",
				},
				"status": map[string]any{
					"type": "string",
					"enum": []any{"error", "success", "waiting"},
				},
			},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			page, err := h.gateway.ListExecutions(ctx, n8n.ListExecutionsOptions{
				Limit:      intArg(args, "limit"),
				Cursor:     stringArg(args, "cursor"),
				WorkflowID: stringArg(args, "workflowId"),
				Status:     stringArg(args, "status"),
			})
			if err != nil {
				return "", err
			}
			return formatExecutionPage(page), nil
		},
	}
}

func (h *handlers) deleteExecution() *Definition {
	return &Definition{
		Name:        "delete_execution",
		Description: "Delete an execution record by ID",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Execution ID",
				},
			},
			"required":             []any{"id"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "id")
			if err := h.gateway.DeleteExecution(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Execution %s deleted.", id), nil
		},
	}
}
