package tools

import (
	"context"
	"fmt"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/engine/n8n"
)

// Gateway is the slice of the n8n client the tool handlers depend on.
type Gateway interface {
	CreateWorkflow(ctx context.Context, wf *n8n.Workflow) (*n8n.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (*n8n.Workflow, error)
	UpdateWorkflowFields(ctx context.Context, id string, fields map[string]any) (*n8n.Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error
	ListWorkflows(ctx context.Context, opts n8n.ListWorkflowsOptions) (*n8n.Page[n8n.Workflow], error)
	SetActive(ctx context.Context, id string, active bool) (*n8n.Workflow, error)
	GetExecution(ctx context.Context, id string, includeData bool) (*n8n.Execution, error)
	ListExecutions(ctx context.Context, opts n8n.ListExecutionsOptions) (*n8n.Page[n8n.Execution], error)
	DeleteExecution(ctx context.Context, id string) error
	TriggerWebhook(ctx context.Context, req n8n.WebhookRequest) (*n8n.WebhookResult, error)
	Health(ctx context.Context) *n8n.HealthStatus
}

// Handler executes one tool call with already-validated, defaulted
// arguments and returns the human-readable result text. Failures propagate
// to the caller unclassified; classification happens one level up.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Definition binds a tool name to its input schema and handler.
type Definition struct {
	Name        string
	Description string
	Schema      Schema
	Handler     Handler
}

// Registry is the static dispatch table from tool name to definition.
// Lookup is O(1); listing order is fixed for deterministic descriptors.
type Registry struct {
	defs  map[string]*Definition
	order []string
}

// NewRegistry builds the full tool surface over the given gateway.
func NewRegistry(gateway Gateway) *Registry {
	h := &handlers{gateway: gateway}
	r := &Registry{defs: make(map[string]*Definition)}
	for _, def := range []*Definition{
		h.createWorkflow(),
		h.getWorkflow(),
		h.updateWorkflow(),
		h.deleteWorkflow(),
		h.listWorkflows(),
		h.activateWorkflow(),
		h.deactivateWorkflow(),
		h.triggerWebhook(),
		h.getExecution(),
		h.listExecutions(),
		h.deleteExecution(),
		h.healthCheck(),
	} {
		r.register(def)
	}
	return r
}

func (r *Registry) register(def *Definition) {
	if _, exists := r.defs[def.Name]; exists {
		panic(fmt.Sprintf("duplicate tool registration: %s", def.Name))
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
}

// Get returns the definition for a tool name.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Definitions returns all registered definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Invoke validates args against the tool's schema, applies schema defaults
// and runs the handler. Unknown names are not-found failures.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	def, ok := r.Get(name)
	if !ok {
		return "", core.NewError(core.KindNotFound, fmt.Sprintf("unknown tool: %s", name))
	}
	if err := def.Schema.ValidateArgs(args); err != nil {
		return "", err
	}
	return def.Handler(ctx, def.Schema.ApplyDefaults(args))
}
