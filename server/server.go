// Package server wires the tool registry to the MCP stdio transport. It is
// the single boundary where every failure, expected or not, is classified
// and rendered before reaching the agent host.
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/engine/tools"
	"github.com/flowgate/n8n-mcp/pkg/logger"
	"github.com/flowgate/n8n-mcp/pkg/version"
)

// Server exposes the registry's tools over the MCP protocol.
type Server struct {
	mcp      *mcpserver.MCPServer
	registry *tools.Registry
	log      logger.Logger
}

// New builds the MCP server and registers every tool definition. Listing
// tools is served by the protocol layer with no side effects.
func New(registry *tools.Registry, log logger.Logger) (*Server, error) {
	mcpServer := mcpserver.NewMCPServer(
		"n8n-mcp",
		version.GetVersion(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	srv := &Server{
		mcp:      mcpServer,
		registry: registry,
		log:      log,
	}
	for _, def := range registry.Definitions() {
		raw, err := def.Schema.MarshalRaw()
		if err != nil {
			return nil, fmt.Errorf("failed to render schema for tool %s: %w", def.Name, err)
		}
		tool := mcp.NewToolWithRawSchema(def.Name, def.Description, raw)
		mcpServer.AddTool(tool, srv.invocationHandler(def.Name))
	}
	return srv, nil
}

// invocationHandler adapts one registered tool to the MCP handler contract.
// Exactly one result is produced per request: failures become an error
// result with a single "Error: <message>" text entry, never a protocol
// error, so a bad invocation can never take the process down.
func (s *Server) invocationHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := s.log.With("tool", name, "request_id", uuid.NewString())
		ctx = logger.ContextWithLogger(ctx, log)

		text, err := s.registry.Invoke(ctx, name, request.GetArguments())
		if err != nil {
			envelope := core.Classify(ctx, err)
			return mcp.NewToolResultError("Error: " + envelope.Message), nil
		}
		log.Debug("tool invocation completed")
		return mcp.NewToolResultText(text), nil
	}
}

// Start serves the MCP protocol over stdio, blocking until the transport
// closes.
func (s *Server) Start(_ context.Context) error {
	return mcpserver.ServeStdio(s.mcp)
}
