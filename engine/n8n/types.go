package n8n

import "encoding/json"

// Workflow mirrors the n8n public API workflow representation. ID is empty
// only on create-time input; every record returned by the instance carries
// one.
type Workflow struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Active      bool           `json:"active"`
	Nodes       []Node         `json:"nodes"`
	Connections map[string]any `json:"connections"`
	Settings    map[string]any `json:"settings,omitempty"`
	Tags        []Tag          `json:"tags,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
}

// Node is a free-form n8n node definition; the adapter passes node contents
// through untouched.
type Node map[string]any

// Tag labels a workflow on the remote instance.
type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Execution mirrors the n8n public API execution representation. Execution
// identifiers are numeric on the wire.
type Execution struct {
	ID         json.Number    `json:"id"`
	WorkflowID string         `json:"workflowId,omitempty"`
	Finished   bool           `json:"finished"`
	Mode       string         `json:"mode,omitempty"`
	Status     string         `json:"status,omitempty"`
	StartedAt  string         `json:"startedAt,omitempty"`
	StoppedAt  string         `json:"stoppedAt,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Page is one page of a cursor-paginated listing. An empty NextCursor means
// the end of the sequence; cursor values are opaque and must be echoed back
// unmodified.
type Page[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ListWorkflowsOptions filters a workflow listing.
type ListWorkflowsOptions struct {
	Limit  int
	Cursor string
	Active *bool
	Tags   []string
}

// ListExecutionsOptions filters an execution listing.
type ListExecutionsOptions struct {
	Limit      int
	Cursor     string
	WorkflowID string
	Status     string
}
