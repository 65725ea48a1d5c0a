// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server over the configured provider.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/vitals/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to read your daily vitals through a standardized
protocol. The server communicates via stdin/stdout, so logs go to stderr.

CONFIGURATION:

  {
    "mcpServers": {
      "vitals": {
        "command": "vitals",
        "args": ["mcp"],
        "env": { "VITALS_PROVIDER": "live" }
      }
    }
  }

AVAILABLE TOOLS:

  fetch_metrics       One day's metrics with validation
  week_summary        Seven days ending on a date, with averages
  validate_metrics    Check values against physiological bounds
  provider_status     Active provider, availability and access
  list_samples        Raw store samples (when a store is open)

AVAILABLE RESOURCES:

  vitals://today      Today's metrics
  vitals://week       The last seven days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []mcp.Option{
			mcp.WithProviderName(string(cfg.GetProvider())),
			mcp.WithLogger(logger),
		}
		if store != nil {
			opts = append(opts, mcp.WithStore(store))
		}

		server, err := mcp.NewServer(svc, opts...)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
