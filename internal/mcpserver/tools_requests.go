package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
)

func (s *Server) registerRequestTools() {
	s.mcp.AddTool(mcp.NewTool("request_list",
		mcp.WithDescription("List service requests with optional filters and paging"),
		mcp.WithString("status", mcp.Description("Filter by request status (new, in_progress, completed, ...)")),
		mcp.WithBoolean("unassigned", mcp.Description("Only return requests without an assignee")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of requests to return")),
		mcp.WithNumber("offset", mcp.Description("Number of requests to skip")),
	), s.handleRequestList)

	s.mcp.AddTool(mcp.NewTool("request_get",
		mcp.WithDescription("Get a single service request by ID"),
		mcp.WithString("request_id", mcp.Required(), mcp.Description("Request ID")),
	), s.handleRequestGet)

	s.mcp.AddTool(mcp.NewTool("request_create",
		mcp.WithDescription("Create a new service request"),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Request subject line")),
		mcp.WithString("message", mcp.Description("Request body text")),
		mcp.WithString("customer_id", mcp.Description("Customer the request belongs to")),
		mcp.WithString("priority", mcp.Description("Priority (low, medium, high)")),
	), s.handleRequestCreate)

	s.mcp.AddTool(mcp.NewTool("request_update",
		mcp.WithDescription("Update fields of an existing service request"),
		mcp.WithString("request_id", mcp.Required(), mcp.Description("Request ID")),
		mcp.WithString("subject", mcp.Description("New subject line")),
		mcp.WithString("status", mcp.Description("New status")),
		mcp.WithString("priority", mcp.Description("New priority")),
	), s.handleRequestUpdate)

	s.mcp.AddTool(mcp.NewTool("request_assign",
		mcp.WithDescription("Assign a service request to a user"),
		mcp.WithString("request_id", mcp.Required(), mcp.Description("Request ID")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User ID to assign the request to")),
	), s.handleRequestAssign)

	s.mcp.AddTool(mcp.NewTool("request_convert_to_appointment",
		mcp.WithDescription("Convert a service request into a scheduled appointment"),
		mcp.WithString("request_id", mcp.Required(), mcp.Description("Request ID")),
		mcp.WithString("title", mcp.Description("Appointment title (defaults to the request subject)")),
		mcp.WithString("scheduled_at", mcp.Required(), mcp.Description("Appointment time (RFC3339)")),
		mcp.WithNumber("duration", mcp.Description("Duration in minutes")),
	), s.handleRequestConvert)
}

func (s *Server) handleRequestList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := bms.RequestListOptions{
		Status: req.GetString("status", ""),
		Limit:  req.GetInt("limit", 0),
		Offset: req.GetInt("offset", 0),
	}
	if req.GetBool("unassigned", false) {
		assigned := false
		opts.Assigned = &assigned
	}
	list, err := s.client.Requests(ctx, opts)
	if err != nil {
		return s.toolError("request_list", err)
	}
	return jsonResult(list)
}

func (s *Server) handleRequestGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("request_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := s.client.Request(ctx, id)
	if err != nil {
		return s.toolError("request_get", err)
	}
	return jsonResult(r)
}

func (s *Server) handleRequestCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject, err := req.RequireString("subject")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data := map[string]any{"subject": subject}
	if msg := req.GetString("message", ""); msg != "" {
		data["message"] = msg
	}
	if cid := req.GetString("customer_id", ""); cid != "" {
		data["customerId"] = cid
	}
	if prio := req.GetString("priority", ""); prio != "" {
		data["priority"] = prio
	}
	r, err := s.client.CreateRequest(ctx, data)
	if err != nil {
		return s.toolError("request_create", err)
	}
	return jsonResult(r)
}

func (s *Server) handleRequestUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("request_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data := map[string]any{}
	for _, field := range []string{"subject", "status", "priority"} {
		if v := req.GetString(field, ""); v != "" {
			data[field] = v
		}
	}
	if len(data) == 0 {
		return mcp.NewToolResultError("no fields to update"), nil
	}
	r, err := s.client.UpdateRequest(ctx, id, data)
	if err != nil {
		return s.toolError("request_update", err)
	}
	return jsonResult(r)
}

func (s *Server) handleRequestAssign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("request_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := s.client.AssignRequest(ctx, id, userID)
	if err != nil {
		return s.toolError("request_assign", err)
	}
	return jsonResult(r)
}

func (s *Server) handleRequestConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("request_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheduledAt, err := req.RequireString("scheduled_at")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data := map[string]any{"scheduledAt": scheduledAt}
	if title := req.GetString("title", ""); title != "" {
		data["title"] = title
	}
	if dur := req.GetInt("duration", 0); dur > 0 {
		data["duration"] = dur
	}
	appointment, err := s.client.ConvertRequest(ctx, id, data)
	if err != nil {
		return s.toolError("request_convert_to_appointment", err)
	}
	return jsonResult(appointment)
}
