package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
)

func (s *Server) registerAppointmentTools() {
	s.mcp.AddTool(mcp.NewTool("appointment_list",
		mcp.WithDescription("List appointments with optional filters and paging"),
		mcp.WithString("status", mcp.Description("Filter by appointment status (planned, confirmed, cancelled, ...)")),
		mcp.WithBoolean("upcoming", mcp.Description("Only return appointments scheduled in the future")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of appointments to return")),
		mcp.WithNumber("offset", mcp.Description("Number of appointments to skip")),
	), s.handleAppointmentList)

	s.mcp.AddTool(mcp.NewTool("appointment_get",
		mcp.WithDescription("Get a single appointment by ID"),
		mcp.WithString("appointment_id", mcp.Required(), mcp.Description("Appointment ID")),
	), s.handleAppointmentGet)

	s.mcp.AddTool(mcp.NewTool("appointment_create",
		mcp.WithDescription("Create a new appointment"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Appointment title")),
		mcp.WithString("scheduled_at", mcp.Required(), mcp.Description("Appointment time (RFC3339)")),
		mcp.WithNumber("duration", mcp.Description("Duration in minutes")),
		mcp.WithString("customer_id", mcp.Description("Customer the appointment is for")),
		mcp.WithString("description", mcp.Description("Free-form description")),
	), s.handleAppointmentCreate)

	s.mcp.AddTool(mcp.NewTool("appointment_update",
		mcp.WithDescription("Update fields of an existing appointment"),
		mcp.WithString("appointment_id", mcp.Required(), mcp.Description("Appointment ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("scheduled_at", mcp.Description("New time (RFC3339)")),
		mcp.WithNumber("duration", mcp.Description("New duration in minutes")),
		mcp.WithString("status", mcp.Description("New status")),
	), s.handleAppointmentUpdate)

	s.mcp.AddTool(mcp.NewTool("appointment_cancel",
		mcp.WithDescription("Cancel an appointment"),
		mcp.WithString("appointment_id", mcp.Required(), mcp.Description("Appointment ID")),
		mcp.WithString("reason", mcp.Description("Cancellation reason")),
	), s.handleAppointmentCancel)
}

func (s *Server) handleAppointmentList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.client.Appointments(ctx, bms.AppointmentListOptions{
		Status:   req.GetString("status", ""),
		Upcoming: req.GetBool("upcoming", false),
		Limit:    req.GetInt("limit", 0),
		Offset:   req.GetInt("offset", 0),
	})
	if err != nil {
		return s.toolError("appointment_list", err)
	}
	return jsonResult(list)
}

func (s *Server) handleAppointmentGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("appointment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	appointment, err := s.client.Appointment(ctx, id)
	if err != nil {
		return s.toolError("appointment_get", err)
	}
	return jsonResult(appointment)
}

func (s *Server) handleAppointmentCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheduledAt, err := req.RequireString("scheduled_at")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data := map[string]any{"title": title, "scheduledAt": scheduledAt}
	if dur := req.GetInt("duration", 0); dur > 0 {
		data["duration"] = dur
	}
	if cid := req.GetString("customer_id", ""); cid != "" {
		data["customerId"] = cid
	}
	if desc := req.GetString("description", ""); desc != "" {
		data["description"] = desc
	}
	appointment, err := s.client.CreateAppointment(ctx, data)
	if err != nil {
		return s.toolError("appointment_create", err)
	}
	return jsonResult(appointment)
}

func (s *Server) handleAppointmentUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("appointment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data := map[string]any{}
	if title := req.GetString("title", ""); title != "" {
		data["title"] = title
	}
	if at := req.GetString("scheduled_at", ""); at != "" {
		data["scheduledAt"] = at
	}
	if dur := req.GetInt("duration", 0); dur > 0 {
		data["duration"] = dur
	}
	if status := req.GetString("status", ""); status != "" {
		data["status"] = status
	}
	if len(data) == 0 {
		return mcp.NewToolResultError("no fields to update"), nil
	}
	appointment, err := s.client.UpdateAppointment(ctx, id, data)
	if err != nil {
		return s.toolError("appointment_update", err)
	}
	return jsonResult(appointment)
}

func (s *Server) handleAppointmentCancel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("appointment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	appointment, err := s.client.CancelAppointment(ctx, id, req.GetString("reason", ""))
	if err != nil {
		return s.toolError("appointment_cancel", err)
	}
	return jsonResult(appointment)
}
