package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAutomationTools() {
	s.mcp.AddTool(mcp.NewTool("automation_create_webhook",
		mcp.WithDescription("Register a webhook that fires on BMS entity events"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Webhook name")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Target URL to POST to")),
		mcp.WithString("entity_type", mcp.Required(), mcp.Description("Entity type to watch (customer, request, appointment)")),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Operation to fire on (create, update, delete)")),
	), s.handleCreateWebhook)

	s.mcp.AddTool(mcp.NewTool("automation_trigger_webhook",
		mcp.WithDescription("Fire a registered webhook manually with a test payload"),
		mcp.WithString("webhook_id", mcp.Required(), mcp.Description("Webhook ID")),
	), s.handleTriggerWebhook)

	s.mcp.AddTool(mcp.NewTool("automation_create_schedule",
		mcp.WithDescription("Create a cron-scheduled automation job"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Schedule name")),
		mcp.WithString("cron", mcp.Required(), mcp.Description("Cron expression")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action the schedule performs")),
	), s.handleCreateSchedule)

	s.mcp.AddTool(mcp.NewTool("automation_list_executions",
		mcp.WithDescription("List recent automation executions"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of executions to return (default 20)")),
	), s.handleListExecutions)
}

func (s *Server) handleCreateWebhook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data := map[string]any{}
	for _, field := range []string{"name", "url", "entity_type", "operation"} {
		v, err := req.RequireString(field)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data[field] = v
	}
	result, err := s.client.CreateWebhook(ctx, data)
	if err != nil {
		return s.toolError("automation_create_webhook", err)
	}
	return jsonResult(result)
}

func (s *Server) handleTriggerWebhook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("webhook_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.client.TriggerWebhook(ctx, id, map[string]any{"test": true})
	if err != nil {
		return s.toolError("automation_trigger_webhook", err)
	}
	return jsonResult(result)
}

func (s *Server) handleCreateSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data := map[string]any{}
	for _, field := range []string{"name", "cron", "action"} {
		v, err := req.RequireString(field)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data[field] = v
	}
	result, err := s.client.CreateSchedule(ctx, data)
	if err != nil {
		return s.toolError("automation_create_schedule", err)
	}
	return jsonResult(result)
}

func (s *Server) handleListExecutions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.client.AutomationExecutions(ctx, req.GetInt("limit", 20))
	if err != nil {
		return s.toolError("automation_list_executions", err)
	}
	return jsonResult(result)
}
