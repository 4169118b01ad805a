package tools

import (
	"fmt"
	"strings"

	"github.com/flowgate/n8n-mcp/engine/n8n"
)

// Text rendering of gateway results. Field order is stable but not a
// contract; every semantically relevant field is present.

func formatWorkflow(wf *n8n.Workflow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workflow: %s\n", wf.Name)
	fmt.Fprintf(&b, "  ID: %s\n", wf.ID)
	fmt.Fprintf(&b, "  Active: %t\n", wf.Active)
	fmt.Fprintf(&b, "  Nodes: %d\n", len(wf.Nodes))
	if len(wf.Tags) > 0 {
		names := make([]string, 0, len(wf.Tags))
		for _, tag := range wf.Tags {
			names = append(names, tag.Name)
		}
		fmt.Fprintf(&b, "  Tags: %s\n", strings.Join(names, ", "))
	}
	if wf.CreatedAt != "" {
		fmt.Fprintf(&b, "  Created: %s\n", wf.CreatedAt)
	}
	if wf.UpdatedAt != "" {
		fmt.Fprintf(&b, "  Updated: %s\n", wf.UpdatedAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatWorkflowPage(page *n8n.Page[n8n.Workflow]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d workflow(s).\n", len(page.Data))
	for i := range page.Data {
		wf := &page.Data[i]
		state := "inactive"
		if wf.Active {
			state = "active"
		}
		fmt.Fprintf(&b, "- %s (ID: %s, %s, %d nodes)\n", wf.Name, wf.ID, state, len(wf.Nodes))
	}
	appendCursor(&b, page.NextCursor)
	return strings.TrimRight(b.String(), "\n")
}

func formatExecution(exec *n8n.Execution, includeData bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Execution: %s\n", exec.ID)
	if exec.WorkflowID != "" {
		fmt.Fprintf(&b, "  Workflow: %s\n", exec.WorkflowID)
	}
	fmt.Fprintf(&b, "  Status: %s\n", executionStatus(exec))
	if exec.Mode != "" {
		fmt.Fprintf(&b, "  Mode: %s\n", exec.Mode)
	}
	if exec.StartedAt != "" {
		fmt.Fprintf(&b, "  Started: %s\n", exec.StartedAt)
	}
	if exec.StoppedAt != "" {
		fmt.Fprintf(&b, "  Stopped: %s\n", exec.StoppedAt)
	}
	if includeData && exec.Data != nil {
		fmt.Fprintf(&b, "  Data: %v\n", exec.Data)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatExecutionPage(page *n8n.Page[n8n.Execution]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d execution(s).\n", len(page.Data))
	for i := range page.Data {
		exec := &page.Data[i]
		fmt.Fprintf(&b, "- %s (workflow %s, %s", exec.ID, exec.WorkflowID, executionStatus(exec))
		if exec.StartedAt != "" {
			fmt.Fprintf(&b, ", started %s", exec.StartedAt)
		}
		b.WriteString(")\n")
	}
	appendCursor(&b, page.NextCursor)
	return strings.TrimRight(b.String(), "\n")
}

func executionStatus(exec *n8n.Execution) string {
	if exec.Status != "" {
		return exec.Status
	}
	if exec.Finished {
		return "finished"
	}
	return "running"
}

func formatWebhookResult(result *n8n.WebhookResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Webhook responded with status %d.", result.Status)
	if result.Body != "" {
		fmt.Fprintf(&b, "\nResponse:\n%s", result.Body)
	}
	return b.String()
}

func formatHealth(status *n8n.HealthStatus, instance string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", status.Status)
	if instance != "" {
		fmt.Fprintf(&b, "Instance: %s\n", instance)
	}
	fmt.Fprintf(&b, "Response time: %s\n", status.ResponseTime)
	fmt.Fprintf(&b, "Checked at: %s\n", status.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	if status.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", status.Error)
	}
	fmt.Fprintf(&b, "Configuration:\n")
	fmt.Fprintf(&b, "  Base URL: %s\n", status.Snapshot.BaseURL)
	fmt.Fprintf(&b, "  Timeout: %s\n", status.Snapshot.Timeout)
	fmt.Fprintf(&b, "  Max retries: %d\n", status.Snapshot.MaxRetries)
	fmt.Fprintf(&b, "  Cache enabled: %t\n", status.Snapshot.CacheEnabled)
	return strings.TrimRight(b.String(), "\n")
}

func appendCursor(b *strings.Builder, cursor string) {
	if cursor != "" {
		fmt.Fprintf(b, "Next cursor: %s\n", cursor)
	} else {
		b.WriteString("No more pages.\n")
	}
}
