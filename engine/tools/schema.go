package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"

	"github.com/flowgate/n8n-mcp/engine/core"
)

// Schema is a JSON schema as a plain map, rendered into the tool descriptor
// verbatim and used to validate raw arguments before dispatch.
type Schema map[string]any

func (s Schema) MarshalRaw() (json.RawMessage, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return raw, nil
}

func (s Schema) Compile() (*jsonschema.Schema, error) {
	raw, err := s.MarshalRaw()
	if err != nil {
		return nil, err
	}
	compiled, err := jsonschema.NewCompiler().Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// ValidateArgs checks raw tool arguments against the schema. All violations
// are reported together in a single invalid-params failure, not just the
// first one.
func (s Schema) ValidateArgs(args map[string]any) error {
	compiled, err := s.Compile()
	if err != nil {
		return core.WrapError(core.KindInternalError, "tool schema is invalid", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	result := compiled.Validate(args)
	if result.Valid {
		return nil
	}
	violations := make([]string, 0, len(result.Errors))
	for _, evalErr := range result.Errors {
		violations = append(violations, evalErr.Error())
	}
	sort.Strings(violations)
	return core.NewError(core.KindInvalidParams,
		fmt.Sprintf("invalid arguments: %s", strings.Join(violations, "; ")))
}

// ApplyDefaults returns a copy of args with schema-declared property
// defaults filled in for absent keys. Tool schemas are flat objects, so only
// top-level defaults are considered.
func (s Schema) ApplyDefaults(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		return out
	}
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if def, ok := prop["default"]; ok {
			if _, present := out[name]; !present {
				out[name] = def
			}
		}
	}
	return out
}
