package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/onboard/pkg/adapters/mcp"
	"github.com/aretw0/onboard/pkg/adapters/memory"
	"github.com/aretw0/onboard/pkg/session"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes onboarding flows as MCP tools, so an AI agent can walk a user through
a flow step by step.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")
		logger := serverLogger(cmd)

		store := memory.NewStore(memory.WithTTL(ttl))
		sessions := session.NewManager(store, flowSource(cmd), session.WithLogger(logger))
		srv := mcp.NewServer(sessions, mcp.WithLogger(logger))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go sweepSessions(ctx, store, ttl/2, logger)

		switch transport {
		case "stdio":
			logger.Info("starting onboard MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting onboard MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Duration("session-ttl", 30*time.Minute, "Drop sessions idle for longer than this (0 keeps them)")
	mcpCmd.Flags().String("log-format", "text", "Log format: text or json")
}
