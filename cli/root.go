package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/engine/n8n"
	"github.com/flowgate/n8n-mcp/engine/tools"
	"github.com/flowgate/n8n-mcp/pkg/config"
	"github.com/flowgate/n8n-mcp/pkg/logger"
	"github.com/flowgate/n8n-mcp/pkg/version"
	"github.com/flowgate/n8n-mcp/server"
)

// RootCmd builds the command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "n8n-mcp",
		Short:         "MCP server exposing an n8n instance as agent tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(ServeCmd(), VersionCmd())
	return root
}

// ServeCmd starts the MCP server on stdio. Configuration comes from the
// environment and is validated before anything else starts; a validation
// failure is a non-zero exit.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP protocol over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				// The logger is not configured yet; stderr directly.
				fmt.Fprintf(cmd.ErrOrStderr(), "startup failed: %v\n", err)
				return err
			}

			log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON)
			ctx = logger.ContextWithLogger(ctx, log)

			client, err := n8n.NewClient(cfg)
			if err != nil {
				log.Error("failed to build n8n gateway", "error", err)
				return err
			}

			// A failed probe is a warning, not a startup failure: the host
			// decides when to retry tools, and the instance may come up later.
			if err := client.ProbeReady(ctx); err != nil {
				log.Warn("n8n instance not reachable at startup", "error", core.RedactError(err))
			}

			registry := tools.NewRegistry(client)
			srv, err := server.New(registry, log)
			if err != nil {
				log.Error("failed to build MCP server", "error", err)
				return err
			}

			log.Info("n8n-mcp serving on stdio",
				"version", version.GetVersion(),
				"base_url", cfg.N8N.BaseURL,
				"mode", cfg.Runtime.Mode)
			// ServeStdio returns nil on SIGINT/SIGTERM or when the host
			// closes stdin; that is a normal shutdown.
			if err := srv.Start(ctx); err != nil {
				log.Error("server terminated", "error", err)
				return err
			}
			log.Info("n8n-mcp shut down")
			return nil
		},
	}
}

// VersionCmd prints build information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "n8n-mcp %s (%s)\n", version.GetVersion(), version.GetCommitHash())
		},
	}
}
