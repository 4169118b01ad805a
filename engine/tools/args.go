package tools

import (
	"encoding/json"
	"fmt"

	"github.com/flowgate/n8n-mcp/engine/n8n"
)

// Argument extraction helpers. Arguments have already passed schema
// validation; these only normalize the JSON-decoded representations.

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func boolArg(args map[string]any, key string) (value, present bool) {
	if v, ok := args[key].(bool); ok {
		return v, true
	}
	return false, false
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprintf("%v", item))
		}
	}
	return out
}

func mapArg(args map[string]any, key string) map[string]any {
	if v, ok := args[key].(map[string]any); ok {
		return v
	}
	return nil
}

func headersArg(args map[string]any, key string) map[string]string {
	raw := mapArg(args, key)
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

func nodesArg(args map[string]any, key string) ([]n8n.Node, bool) {
	raw, ok := args[key].([]any)
	if !ok {
		return nil, false
	}
	nodes := make([]n8n.Node, 0, len(raw))
	for _, item := range raw {
		if node, ok := item.(map[string]any); ok {
			nodes = append(nodes, n8n.Node(node))
		}
	}
	return nodes, true
}
