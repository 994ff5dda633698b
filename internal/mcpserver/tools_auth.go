package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAuthTools() {
	s.mcp.AddTool(mcp.NewTool("auth_whoami",
		mcp.WithDescription("Show the BMS account this server is authenticated as"),
	), s.handleWhoami)

	s.mcp.AddTool(mcp.NewTool("auth_check_permission",
		mcp.WithDescription("Check whether the service account may perform an action on a resource"),
		mcp.WithString("resource", mcp.Required(), mcp.Description("Resource name (customers, requests, ...)")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to check (read, write, delete)")),
	), s.handleCheckPermission)
}

func (s *Server) handleWhoami(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.auth.ServiceAccountInfo(ctx)
	if err != nil {
		return s.toolError("auth_whoami", err)
	}
	return jsonResult(info)
}

func (s *Server) handleCheckPermission(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resource, err := req.RequireString("resource")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	action, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	allowed := s.auth.CheckPermission(ctx, resource, action)
	return jsonResult(map[string]any{
		"resource": resource,
		"action":   action,
		"allowed":  allowed,
	})
}
