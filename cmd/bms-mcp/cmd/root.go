// Package cmd implements the bms-mcp command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Virtus92/Rising-BSM-Dev/internal/config"
	"github.com/Virtus92/Rising-BSM-Dev/pkg/logging"
)

// Version information set by main.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bms-mcp",
	Short: "BMS MCP and event streaming server",
	Long: `bms-mcp exposes a Business Management System API to AI assistants.

It runs in two modes: an MCP server over stdio (tools, resources, and
prompts for customers, requests, appointments, and automation) and an
HTTP server that polls the BMS API for changes and streams them to
clients over SSE and WebSocket.`,
	SilenceUsage: true,
}

// Execute runs the CLI with signal-aware cancellation.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and configures the default logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
