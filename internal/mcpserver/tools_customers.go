package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
)

func (s *Server) registerCustomerTools() {
	s.mcp.AddTool(mcp.NewTool("customer_list",
		mcp.WithDescription("List customers with optional status filter and paging"),
		mcp.WithString("status", mcp.Description("Filter by customer status (active, inactive, ...)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of customers to return")),
		mcp.WithNumber("offset", mcp.Description("Number of customers to skip")),
	), s.handleCustomerList)

	s.mcp.AddTool(mcp.NewTool("customer_get",
		mcp.WithDescription("Get a single customer by ID"),
		mcp.WithString("customer_id", mcp.Required(), mcp.Description("Customer ID")),
	), s.handleCustomerGet)

	s.mcp.AddTool(mcp.NewTool("customer_create",
		mcp.WithDescription("Create a new customer"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Customer name")),
		mcp.WithString("email", mcp.Description("Contact email")),
		mcp.WithString("phone", mcp.Description("Contact phone number")),
	), s.handleCustomerCreate)

	s.mcp.AddTool(mcp.NewTool("customer_update",
		mcp.WithDescription("Update fields of an existing customer"),
		mcp.WithString("customer_id", mcp.Required(), mcp.Description("Customer ID")),
		mcp.WithString("name", mcp.Description("New customer name")),
		mcp.WithString("email", mcp.Description("New contact email")),
		mcp.WithString("phone", mcp.Description("New contact phone number")),
		mcp.WithString("status", mcp.Description("New customer status")),
	), s.handleCustomerUpdate)

	s.mcp.AddTool(mcp.NewTool("customer_add_note",
		mcp.WithDescription("Attach a note to a customer"),
		mcp.WithString("customer_id", mcp.Required(), mcp.Description("Customer ID")),
		mcp.WithString("note", mcp.Required(), mcp.Description("Note text")),
	), s.handleCustomerAddNote)
}

func (s *Server) handleCustomerList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.client.Customers(ctx, bms.CustomerListOptions{
		Status: req.GetString("status", ""),
		Limit:  req.GetInt("limit", 0),
		Offset: req.GetInt("offset", 0),
	})
	if err != nil {
		return s.toolError("customer_list", err)
	}
	return jsonResult(list)
}

func (s *Server) handleCustomerGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("customer_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	customer, err := s.client.Customer(ctx, id)
	if err != nil {
		return s.toolError("customer_get", err)
	}
	return jsonResult(customer)
}

func (s *Server) handleCustomerCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data := map[string]any{"name": name}
	if email := req.GetString("email", ""); email != "" {
		data["email"] = email
	}
	if phone := req.GetString("phone", ""); phone != "" {
		data["phone"] = phone
	}
	customer, err := s.client.CreateCustomer(ctx, data)
	if err != nil {
		return s.toolError("customer_create", err)
	}
	return jsonResult(customer)
}

func (s *Server) handleCustomerUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("customer_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data := map[string]any{}
	for _, field := range []string{"name", "email", "phone", "status"} {
		if v := req.GetString(field, ""); v != "" {
			data[field] = v
		}
	}
	if len(data) == 0 {
		return mcp.NewToolResultError("no fields to update"), nil
	}
	customer, err := s.client.UpdateCustomer(ctx, id, data)
	if err != nil {
		return s.toolError("customer_update", err)
	}
	return jsonResult(customer)
}

func (s *Server) handleCustomerAddNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("customer_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.client.AddCustomerNote(ctx, id, note)
	if err != nil {
		return s.toolError("customer_add_note", err)
	}
	return jsonResult(result)
}
