package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/shelfsearch/internal/logging"
	"github.com/Aman-CERP/shelfsearch/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
search_catalog, suggest_queries and catalog_status tools.

Stdout carries JSON-RPC only; logs go to ~/.shelfsearch/logs/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	logger := slog.Default()
	if !debugMode {
		l, cleanup, err := logging.Setup(logging.ServerConfig(a.cfg.Server.LogLevel))
		if err != nil {
			return fmt.Errorf("failed to setup server logging: %w", err)
		}
		defer cleanup()
		logger = l
	}

	server, err := mcp.NewServer(a.engine, a.catalog, a.cfg)
	if err != nil {
		return err
	}
	server.SetLogger(logger)
	if a.metrics != nil {
		server.SetMetrics(a.metrics)
	}
	defer func() { _ = server.Close() }()

	err = server.Serve(ctx, a.cfg.Server.Transport)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
