package tools

import (
	"context"
)

func (h *handlers) healthCheck() *Definition {
	return &Definition{
		Name:        "health_check",
		Description: "Check connectivity to the configured n8n instance",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"instance": map[string]any{
					"type":        "string",
					"description": "Informational label echoed back in the report",
				},
			},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			status := h.gateway.Health(ctx)
			return formatHealth(status, stringArg(args, "instance")), nil
		},
	}
}
