// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to record samples and query readiness through a
standardized protocol. The server communicates via stdin/stdout.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "readiness": {
        "command": "readiness",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_sample          Record a physiological sample
  add_sleep           Record a manual sleep duration
  compute_readiness   Run the full readiness calculation for a date
  get_readiness       Get the stored result for a date
  get_baseline        Get the rolling baseline for a metric type
  detect_anomalies    Flag scores far below their history

AVAILABLE RESOURCES:

  readiness://latest      Most recent stored result
  readiness://trend       Recent score history
  readiness://baselines   Current baselines for all tracked metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, engine, currentUser())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

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
