package tools

import (
	"context"
	"net/http"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/engine/n8n"
)

const webhook404Guidance = "webhook returned 404: the webhook is not registered. " +
	"Check that the workflow is active, the webhook path matches the node configuration, " +
	"and the HTTP method is the one the webhook node expects. " +
	"Test-mode webhook URLs only work while the workflow editor is listening."

func (h *handlers) triggerWebhook() *Definition {
	return &Definition{
		Name:        "trigger_webhook",
		Description: "Trigger a workflow through its webhook URL with a direct HTTP call",
		Schema: Schema{
			"type": "object",
			"properties": map[string]any{
				"webhookUrl": map[string]any{
					"type":        "string",
					"description": "Full webhook URL, production or test",
				},
				"httpMethod": map[string]any{
					"type":    "string",
					"enum":    []any{"GET", "POST", "PUT", "PATCH", "DELETE"},
					"default": "POST",
				},
				"data": map[string]any{
					"type":        "object",
					"description": "JSON body to send",
				},
				"headers": map[string]any{
					"type":        "object",
					"description": "Additional request headers",
				},
				"waitForResponse": map[string]any{
					"type":        "boolean",
					"default":     true,
					"description": "Wait for the workflow response (60s timeout) instead of fire-and-forget (5s)",
				},
			},
			"required":             []any{"webhookUrl"},
			"additionalProperties": false,
		},
		Handler: h.handleTriggerWebhook,
	}
}

func (h *handlers) handleTriggerWebhook(ctx context.Context, args map[string]any) (string, error) {
	wait, _ := boolArg(args, "waitForResponse")
	result, err := h.gateway.TriggerWebhook(ctx, n8n.WebhookRequest{
		URL:             stringArg(args, "webhookUrl"),
		Method:          stringArg(args, "httpMethod"),
		Headers:         headersArg(args, "headers"),
		Data:            mapArg(args, "data"),
		WaitForResponse: wait,
	})
	if err != nil {
		// A 404 from a webhook almost always means a configuration problem
		// on the n8n side; surface guidance instead of the raw status line.
		if n8n.IsStatus(err, http.StatusNotFound) {
			return "", core.WrapError(core.KindNotFound, webhook404Guidance, err)
		}
		return "", err
	}
	return formatWebhookResult(result), nil
}
