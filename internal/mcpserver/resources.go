package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
)

const resourceMIME = "application/json"

// recentResourceLimit bounds the listing resources so a resource read
// stays a digest, not a full export.
const recentResourceLimit = 10

func (s *Server) registerResources() {
	s.addResource("bms://customers/recent", "Recent customers",
		"The most recently created customers", func(ctx context.Context) (any, error) {
			customers, err := s.client.RecentCustomers(ctx, recentResourceLimit)
			if err != nil {
				return nil, err
			}
			return bms.CustomerList{Customers: customers, Total: len(customers)}, nil
		})

	s.addResource("bms://customers/stats", "Customer statistics",
		"Aggregate customer statistics", func(ctx context.Context) (any, error) {
			return s.client.CustomerStats(ctx)
		})

	s.addResource("bms://requests/pending", "Pending requests",
		"Service requests awaiting action", func(ctx context.Context) (any, error) {
			return s.client.Requests(ctx, bms.RequestListOptions{Status: "new", Limit: recentResourceLimit})
		})

	s.addResource("bms://requests/stats", "Request statistics",
		"Aggregate service request statistics", func(ctx context.Context) (any, error) {
			return s.client.RequestStats(ctx)
		})

	s.addResource("bms://appointments/upcoming", "Upcoming appointments",
		"Appointments scheduled in the near future", func(ctx context.Context) (any, error) {
			return s.client.Appointments(ctx, bms.AppointmentListOptions{Upcoming: true, Limit: recentResourceLimit})
		})

	s.addResource("bms://appointments/calendar", "Appointment calendar",
		"All appointments in calendar order", func(ctx context.Context) (any, error) {
			return s.client.Appointments(ctx, bms.AppointmentListOptions{})
		})

	s.addResource("bms://dashboard/overview", "Dashboard overview",
		"Combined statistics across customers, requests, and appointments", func(ctx context.Context) (any, error) {
			return s.client.DashboardStats(ctx)
		})

	s.addResource("bms://dashboard/kpis", "Key performance indicators",
		"Dashboard KPI summary", func(ctx context.Context) (any, error) {
			return s.client.DashboardStats(ctx)
		})

	s.addResource("bms://users/active", "Active users",
		"Currently active BMS user accounts", func(ctx context.Context) (any, error) {
			return s.client.Users(ctx, true)
		})

	s.addEntityTemplate("bms://customers/{id}", "Customer by ID",
		"A single customer record", func(ctx context.Context, id string) (any, error) {
			return s.client.Customer(ctx, id)
		})

	s.addEntityTemplate("bms://requests/{id}", "Request by ID",
		"A single service request record", func(ctx context.Context, id string) (any, error) {
			return s.client.Request(ctx, id)
		})

	s.addEntityTemplate("bms://appointments/{id}", "Appointment by ID",
		"A single appointment record", func(ctx context.Context, id string) (any, error) {
			return s.client.Appointment(ctx, id)
		})
}

// addResource registers a fixed-URI JSON resource backed by fetch.
func (s *Server) addResource(uri, name, description string, fetch func(context.Context) (any, error)) {
	resource := mcp.NewResource(uri, name,
		mcp.WithResourceDescription(description),
		mcp.WithMIMEType(resourceMIME),
	)
	s.mcp.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		v, err := fetch(ctx)
		if err != nil {
			s.logger.Error().Err(err).Str("uri", uri).Msg("Resource read failed")
			return nil, err
		}
		return resourceContents(req.Params.URI, v)
	})
}

// addEntityTemplate registers a {id}-templated JSON resource. The entity
// ID is the final path segment of the requested URI.
func (s *Server) addEntityTemplate(uriTemplate, name, description string, fetch func(context.Context, string) (any, error)) {
	template := mcp.NewResourceTemplate(uriTemplate, name,
		mcp.WithTemplateDescription(description),
		mcp.WithTemplateMIMEType(resourceMIME),
	)
	s.mcp.AddResourceTemplate(template, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := req.Params.URI[strings.LastIndex(req.Params.URI, "/")+1:]
		v, err := fetch(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Str("uri", req.Params.URI).Msg("Resource read failed")
			return nil, err
		}
		return resourceContents(req.Params.URI, v)
	})
}

func resourceContents(uri string, v any) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: resourceMIME,
			Text:     string(out),
		},
	}, nil
}
