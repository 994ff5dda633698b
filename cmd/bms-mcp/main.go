// Package main provides the entry point for the BMS MCP server.
package main

import "github.com/Virtus92/Rising-BSM-Dev/cmd/bms-mcp/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
