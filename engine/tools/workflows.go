package tools

import (
	"context"
	"fmt"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/engine/n8n"
	"github.com/flowgate/n8n-mcp/pkg/logger"
)

type handlers struct {
	gateway Gateway
}

func workflowIDProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Workflow ID",
	}
}

func (h *handlers) createWorkflow() *Definition {
	return &Definition{
		Name:        "create_workflow",
		Description: "Create a new workflow on the n8n instance",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Workflow name",
				},
				"nodes": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "object"},
					"description": "Workflow node definitions, passed through to n8n unmodified",
				},
				"connections": map[string]any{
					"type":        "object",
					"description": "Node connection map",
				},
				"settings": map[string]any{
					"type":        "object",
					"description": "Workflow settings; n8n instances commonly require this, an empty object is accepted",
				},
			},
			"required":             []any{"name", "nodes", "connections"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			nodes, _ := nodesArg(args, "nodes")
			wf := &n8n.Workflow{
				Name:        stringArg(args, "name"),
				Nodes:       nodes,
				Connections: mapArg(args, "connections"),
				Settings:    mapArg(args, "settings"),
			}
			created, err := h.gateway.CreateWorkflow(ctx, wf)
			if err != nil {
				return "", err
			}
			return "Workflow created.\n" + formatWorkflow(created), nil
		},
	}
}

func (h *handlers) getWorkflow() *Definition {
	return &Definition{
		Name:        "get_workflow",
		Description: "Fetch a workflow by ID",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"id": workflowIDProperty(),
			},
			"required":             []any{"id"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			wf, err := h.gateway.GetWorkflow(ctx, stringArg(args, "id"))
			if err != nil {
				return "", err
			}
			return formatWorkflow(wf), nil
		},
	}
}

func (h *handlers) updateWorkflow() *Definition {
	return &Definition{
		Name:        "update_workflow",
		Description: "Update a workflow; omitted fields keep their current values",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"id":   workflowIDProperty(),
				"name": map[string]any{"type": "string"},
				"nodes": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "object"},
				},
				"connections": map[string]any{"type": "object"},
				"active":      map[string]any{"type": "boolean"},
			},
			"required":             []any{"id"},
			"additionalProperties": false,
		},
		Handler: h.handleUpdateWorkflow,
	}
}

func (h *handlers) handleUpdateWorkflow(ctx context.Context, args map[string]any) (string, error) {
	id := stringArg(args, "id")
	fields := updateFields(args)
	_, activePresent := boolArg(args, "active")
	if len(fields) == 0 && !activePresent {
		return "", core.NewError(core.KindInvalidParams,
			"nothing to update: provide at least one of name, nodes, connections, active")
	}

	var updated *n8n.Workflow
	var err error
	if len(fields) > 0 {
		fields, err = h.mergeUpdateFields(ctx, id, fields)
		if err != nil {
			return "", err
		}
		updated, err = h.gateway.UpdateWorkflowFields(ctx, id, fields)
		if err != nil {
			return "", err
		}
	}
	if active, present := boolArg(args, "active"); present {
		updated, err = h.gateway.SetActive(ctx, id, active)
		if err != nil {
			return "", err
		}
	}
	return "Workflow updated.\n" + formatWorkflow(updated), nil
}

// updateFields collects the caller-supplied replace fields, excluding the
// active flag which goes through the activation chain.
func updateFields(args map[string]any) map[string]any {
	fields := map[string]any{}
	for _, key := range []string{"name", "nodes", "connections"} {
		if v, ok := args[key]; ok {
			fields[key] = v
		}
	}
	return fields
}

// mergeUpdateFields completes a partial update into a full replace body by
// fetching the current workflow and overlaying the caller's fields. When the
// fetch itself fails the partial fields are submitted as-is.
func (h *handlers) mergeUpdateFields(ctx context.Context, id string, fields map[string]any) (map[string]any, error) {
	if len(fields) == 3 {
		return fields, nil
	}
	current, err := h.gateway.GetWorkflow(ctx, id)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Debug("pre-update fetch failed, submitting partial fields", "workflow_id", id, "error", err)
		return fields, nil
	}
	merged := map[string]any{
		"name":        current.Name,
		"nodes":       current.Nodes,
		"connections": current.Connections,
	}
	if current.Settings != nil {
		merged["settings"] = current.Settings
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged, nil
}

func (h *handlers) deleteWorkflow() *Definition {
	return &Definition{
		Name:        "delete_workflow",
		Description: "Delete a workflow by ID",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"id": workflowIDProperty(),
			},
			"required":             []any{"id"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "id")
			if err := h.gateway.DeleteWorkflow(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Workflow %s deleted.", id), nil
		},
	}
}

func (h *handlers) listWorkflows() *Definition {
	return &Definition{
		Name:        "list_workflows",
		Description: "List workflows with cursor pagination",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"maximum":     n8n.MaxPageSize,
					"default":     n8n.MaxPageSize,
					"description": "Page size",
				},
				"cursor": map[string]any{
					"type":        "string",
					"description": "Opaque cursor from a previous page; omit for the first page",
				},
				"active": map[string]any{"type": "boolean"},
				"tags": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			opts := n8n.ListWorkflowsOptions{
				Limit:  intArg(args, "limit"),
				Cursor: stringArg(args, "cursor"),
				Tags:   stringSliceArg(args, "tags"),
			}
			if active, present := boolArg(args, "active"); present {
				opts.Active = &active
			}
			page, err := h.gateway.ListWorkflows(ctx, opts)
			if err != nil {
				return "", err
			}
			return formatWorkflowPage(page), nil
		},
	}
}

func (h *handlers) activateWorkflow() *Definition {
	return h.activationTool("activate_workflow", "Activate a workflow so its triggers run", true)
}

func (h *handlers) deactivateWorkflow() *Definition {
	return h.activationTool("deactivate_workflow", "Deactivate a workflow so its triggers stop", false)
}

func (h *handlers) activationTool(name, description string, active bool) *Definition {
	return &Definition{
		Name:        name,
		Description: description,
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"id": workflowIDProperty(),
			},
			"required":             []any{"id"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "id")
			wf, err := h.gateway.SetActive(ctx, id, active)
			if err != nil {
				return "", err
			}
			state := "deactivated"
			if active {
				state = "activated"
			}
			return fmt.Sprintf("Workflow %s (%s) %s.", wf.Name, id, state), nil
		},
	}
}
