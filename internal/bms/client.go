// Package bms provides the HTTP client for the external Business
// Management System REST API. All entity reads and writes performed by
// the MCP tools, resources, and the change poller go through this client.
package bms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Virtus92/Rising-BSM-Dev/pkg/errors"
)

// DefaultHTTPTimeout bounds every request to the BMS API.
const DefaultHTTPTimeout = 30 * time.Second

// Client is an authenticated HTTP client for the BMS REST API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a new BMS API client. The base URL must not have a
// trailing slash; config.Load already normalizes it.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// do performs an authenticated request and decodes the JSON response
// into target (which may be nil for fire-and-forget calls).
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, target any) error {
	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return errors.WrapResource("create", "request", method+" "+endpoint, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.APIError{Endpoint: endpoint, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode >= 400 {
		msg := "unknown error"
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Message != "" {
			msg = errBody.Message
		}
		return &errors.APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: msg}
	}

	if target == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

// listQuery builds the shared limit/offset query values.
func listQuery(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q
}

// Customers lists customers with optional filtering.
func (c *Client) Customers(ctx context.Context, opts CustomerListOptions) (*CustomerList, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	q := listQuery(opts.Limit, opts.Offset)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	var out CustomerList
	if err := c.do(ctx, http.MethodGet, "/customers", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Customer fetches a single customer by ID.
func (c *Client) Customer(ctx context.Context, id string) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomer creates a new customer.
func (c *Client) CreateCustomer(ctx context.Context, data map[string]any) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCustomer applies a partial update to a customer.
func (c *Client) UpdateCustomer(ctx context.Context, id string, data map[string]any) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPatch, "/customers/"+id, nil, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddCustomerNote attaches a note to a customer.
func (c *Client) AddCustomerNote(ctx context.Context, id, note string) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodPost, "/customers/"+id+"/notes", nil, map[string]any{"content": note}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerStats returns customer statistics.
func (c *Client) CustomerStats(ctx context.Context) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, "/customers/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Requests lists service requests with optional filtering.
func (c *Client) Requests(ctx context.Context, opts RequestListOptions) (*RequestList, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	q := listQuery(opts.Limit, opts.Offset)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Assigned != nil {
		q.Set("assigned", strconv.FormatBool(*opts.Assigned))
	}
	if opts.AssignedTo != "" {
		q.Set("assignedTo", opts.AssignedTo)
	}
	var out RequestList
	if err := c.do(ctx, http.MethodGet, "/requests", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Request fetches a single service request by ID.
func (c *Client) Request(ctx context.Context, id string) (*Request, error) {
	var out Request
	if err := c.do(ctx, http.MethodGet, "/requests/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRequest creates a new service request.
func (c *Client) CreateRequest(ctx context.Context, data map[string]any) (*Request, error) {
	var out Request
	if err := c.do(ctx, http.MethodPost, "/requests", nil, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRequest applies a partial update to a service request.
func (c *Client) UpdateRequest(ctx context.Context, id string, data map[string]any) (*Request, error) {
	var out Request
	if err := c.do(ctx, http.MethodPatch, "/requests/"+id, nil, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignRequest assigns a service request to a user.
func (c *Client) AssignRequest(ctx context.Context, id, userID string) (*Request, error) {
	var out Request
	if err := c.do(ctx, http.MethodPost, "/requests/"+id+"/assign", nil, map[string]any{"userId": userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConvertRequest converts a service request into an appointment.
func (c *Client) ConvertRequest(ctx context.Context, id string, data map[string]any) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/requests/"+id+"/convert", nil, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestStats returns service request statistics.
func (c *Client) RequestStats(ctx context.Context) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, "/requests/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Appointments lists appointments with optional filtering.
func (c *Client) Appointments(ctx context.Context, opts AppointmentListOptions) (*AppointmentList, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	q := listQuery(opts.Limit, opts.Offset)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Upcoming {
		q.Set("upcoming", "true")
	}
	var out AppointmentList
	if err := c.do(ctx, http.MethodGet, "/appointments", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Appointment fetches a single appointment by ID.
func (c *Client) Appointment(ctx context.Context, id string) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAppointment creates a new appointment.
func (c *Client) CreateAppointment(ctx context.Context, data map[string]any) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAppointment applies a partial update to an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id string, data map[string]any) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPatch, "/appointments/"+id, nil, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelAppointment cancels an appointment with a reason.
func (c *Client) CancelAppointment(ctx context.Context, id, reason string) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id+"/cancel", nil, map[string]any{"reason": reason}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AppointmentStats returns appointment statistics.
func (c *Client) AppointmentStats(ctx context.Context) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, "/appointments/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users lists BMS user accounts.
func (c *Client) Users(ctx context.Context, activeOnly bool) (*UserList, error) {
	q := url.Values{}
	q.Set("activeOnly", strconv.FormatBool(activeOnly))
	var out UserList
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// User fetches a single user by ID.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardStats aggregates the per-class statistics endpoints.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	customers, err := c.CustomerStats(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := c.RequestStats(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := c.AppointmentStats(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Customers:    customers,
		Requests:     requests,
		Appointments: appointments,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// CreateWebhook registers a new automation webhook.
func (c *Client) CreateWebhook(ctx context.Context, data map[string]any) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodPost, "/automation/webhooks", nil, data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TriggerWebhook manually fires an automation webhook.
func (c *Client) TriggerWebhook(ctx context.Context, id string, payload map[string]any) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodPost, "/automation/webhooks/"+id+"/trigger", nil, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSchedule registers a new scheduled automation task.
func (c *Client) CreateSchedule(ctx context.Context, data map[string]any) (Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodPost, "/automation/schedules", nil, data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AutomationExecutions returns recent automation execution history.
func (c *Client) AutomationExecutions(ctx context.Context, limit int) (Stats, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var out Stats
	if err := c.do(ctx, http.MethodGet, "/automation/executions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentCustomers returns the most recently touched customers, newest
// first. Used by the change poller.
func (c *Client) RecentCustomers(ctx context.Context, limit int) ([]Customer, error) {
	list, err := c.Customers(ctx, CustomerListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return list.Customers, nil
}

// RecentRequests returns the most recently touched service requests.
func (c *Client) RecentRequests(ctx context.Context, limit int) ([]Request, error) {
	list, err := c.Requests(ctx, RequestListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return list.Requests, nil
}

// RecentAppointments returns the most recently touched appointments.
func (c *Client) RecentAppointments(ctx context.Context, limit int) ([]Appointment, error) {
	list, err := c.Appointments(ctx, AppointmentListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return list.Appointments, nil
}
