package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mark3labs/quizr/internal/mcpserver"
)

var serveFlags struct {
	port int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question bank as MCP tools over HTTP",
	Long: `Serve the question bank as MCP tools over streamable HTTP.

Agents can validate, create, update, read, list and check questions for
duplicates. Writes go through the same step validation and save rules as the
interactive wizard. The server listens on 127.0.0.1 until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "Port to listen on (default: mcp_port from config, 0 picks a free port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.MCPPort
	if cmd.Flags().Changed("port") {
		port = serveFlags.port
	}

	srv := mcpserver.New(a.store, version)
	bound, err := srv.Start(ctx, port)
	if err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	defer func() { _ = srv.Stop() }()

	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", srv.URL())
	fmt.Fprintf(cmd.OutOrStdout(), "Press ctrl+c to stop (port %d)\n", bound)

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")
	return nil
}
