package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("process_new_request",
		mcp.WithPromptDescription("Process a new service request from a customer"),
		mcp.WithArgument("request_id", mcp.RequiredArgument(), mcp.ArgumentDescription("ID of the request to process")),
	), s.promptProcessNewRequest)

	s.mcp.AddPrompt(mcp.NewPrompt("follow_up_pending",
		mcp.WithPromptDescription("Follow up on pending requests that need attention"),
		mcp.WithArgument("days_pending", mcp.ArgumentDescription("Age threshold in days (default 3)")),
	), s.promptFollowUpPending)

	s.mcp.AddPrompt(mcp.NewPrompt("customer_report",
		mcp.WithPromptDescription("Generate a detailed report for a customer"),
		mcp.WithArgument("customer_id", mcp.RequiredArgument(), mcp.ArgumentDescription("ID of the customer")),
		mcp.WithArgument("report_type", mcp.ArgumentDescription("Type of report (summary, detailed, activity)")),
	), s.promptCustomerReport)

	s.mcp.AddPrompt(mcp.NewPrompt("find_appointment_slot",
		mcp.WithPromptDescription("Find an optimal appointment time for a customer"),
		mcp.WithArgument("customer_id", mcp.RequiredArgument(), mcp.ArgumentDescription("ID of the customer")),
		mcp.WithArgument("duration_minutes", mcp.ArgumentDescription("Required duration in minutes (default 60)")),
	), s.promptFindAppointmentSlot)

	s.mcp.AddPrompt(mcp.NewPrompt("business_analysis",
		mcp.WithPromptDescription("Analyze current business performance"),
		mcp.WithArgument("period", mcp.ArgumentDescription("Analysis period (today, week, month)")),
	), s.promptBusinessAnalysis)
}

// userPrompt wraps a single user message into a prompt result.
func userPrompt(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}

func promptArg(req mcp.GetPromptRequest, name, fallback string) string {
	if v, ok := req.Params.Arguments[name]; ok && v != "" {
		return v
	}
	return fallback
}

func (s *Server) promptProcessNewRequest(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := promptArg(req, "request_id", "")
	if id == "" {
		return nil, fmt.Errorf("request_id is required")
	}
	return userPrompt("Process a new service request", fmt.Sprintf(
		"Process the service request with ID %s. "+
			"First, read the request details using bms://requests/%s. "+
			"Then analyze the request and determine: "+
			"1. Priority level based on content "+
			"2. Best user to assign it to "+
			"3. Whether it needs immediate attention "+
			"4. If it can be converted to an appointment "+
			"Finally, take appropriate actions using the available tools.",
		id, id)), nil
}

func (s *Server) promptFollowUpPending(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	days := promptArg(req, "days_pending", "3")
	return userPrompt("Follow up on pending requests", fmt.Sprintf(
		"Review all pending requests older than %s days. "+
			"Use bms://requests/pending to get the list. "+
			"For each request: "+
			"1. Check why it's still pending "+
			"2. Suggest assignment or next action "+
			"3. Flag any that need escalation "+
			"Provide a summary of actions needed.",
		days)), nil
}

func (s *Server) promptCustomerReport(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := promptArg(req, "customer_id", "")
	if id == "" {
		return nil, fmt.Errorf("customer_id is required")
	}
	reportType := promptArg(req, "report_type", "summary")
	return userPrompt("Generate a customer report", fmt.Sprintf(
		"Generate a %s report for customer %s. "+
			"Include: "+
			"1. Customer details (use bms://customers/%s) "+
			"2. All requests from this customer "+
			"3. Appointment history "+
			"4. Current status and any pending items "+
			"5. Recommendations for next steps",
		reportType, id, id)), nil
}

func (s *Server) promptFindAppointmentSlot(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := promptArg(req, "customer_id", "")
	if id == "" {
		return nil, fmt.Errorf("customer_id is required")
	}
	duration := promptArg(req, "duration_minutes", "60")
	return userPrompt("Find an appointment slot", fmt.Sprintf(
		"Find an optimal appointment slot for customer %s. "+
			"Duration needed: %s minutes. "+
			"Check: "+
			"1. Current appointment calendar (bms://appointments/calendar) "+
			"2. Customer's previous appointment patterns "+
			"3. Available time slots in the next 7 days "+
			"Suggest the best 3 time slots with reasoning.",
		id, duration)), nil
}

func (s *Server) promptBusinessAnalysis(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	period := promptArg(req, "period", "today")
	return userPrompt("Analyze business performance", fmt.Sprintf(
		"Perform a comprehensive business analysis for %s. "+
			"Use these resources: "+
			"1. bms://dashboard/overview for current metrics "+
			"2. bms://dashboard/kpis for performance indicators "+
			"Provide: "+
			"- Executive summary "+
			"- Key achievements "+
			"- Areas of concern "+
			"- Recommended actions",
		period)), nil
}
