// Package mcpserver exposes the BMS API as a Model Context Protocol
// server over stdio: tools for mutating operations, resources for
// read-only data, and prompts for common workflows.
//
// This is the composition root: it wires the BMS client and auth client
// into the tool, resource, and prompt registrations. No business logic
// lives here.
package mcpserver

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
)

// Server is the MCP-facing half of the process, wrapping the protocol
// server with the BMS dependencies the handlers need.
type Server struct {
	mcp    *server.MCPServer
	client *bms.Client
	auth   *bms.AuthClient
	logger *zerolog.Logger
}

// New creates the MCP server with all tools, resources, and prompts
// registered.
func New(name, version string, client *bms.Client, auth *bms.AuthClient, logger *zerolog.Logger) *Server {
	s := &Server{
		client: client,
		auth:   auth,
		logger: logger,
	}

	s.mcp = server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	s.registerCustomerTools()
	s.registerRequestTools()
	s.registerAppointmentTools()
	s.registerAutomationTools()
	s.registerAuthTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// Run serves MCP over stdio until the transport closes.
func (s *Server) Run() error {
	s.logger.Info().Msg("MCP server listening on stdio")
	return server.ServeStdio(s.mcp)
}

// jsonResult marshals v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encoding result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError reports an upstream failure to the MCP client. Tool handlers
// return errors in-band so the protocol call itself still succeeds.
func (s *Server) toolError(op string, err error) (*mcp.CallToolResult, error) {
	s.logger.Error().Err(err).Str("tool", op).Msg("Tool call failed")
	return mcp.NewToolResultError(err.Error()), nil
}
