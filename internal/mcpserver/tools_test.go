package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Virtus92/Rising-BSM-Dev/internal/bms"
	"github.com/Virtus92/Rising-BSM-Dev/pkg/logging"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	client := bms.NewClient(upstream.URL, "test-key")
	auth := bms.NewAuthClient(client, "test-key")
	return New("bms-mcp-server", "1.0.0", client, auth, logging.Nop())
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestHandleCustomerGet(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/c-1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(bms.Customer{ID: "c-1", Name: "Acme GmbH"})
	})

	result, err := s.handleCustomerGet(context.Background(), callRequest(map[string]any{
		"customer_id": "c-1",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var customer bms.Customer
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &customer))
	assert.Equal(t, "Acme GmbH", customer.Name)
}

func TestHandleCustomerGetMissingArgument(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called")
	})

	result, err := s.handleCustomerGet(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleCustomerListForwardsFilters(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(bms.CustomerList{
			Customers: []bms.Customer{{ID: "c-1"}},
			Total:     1,
		})
	})

	result, err := s.handleCustomerList(context.Background(), callRequest(map[string]any{
		"status": "active",
		"limit":  float64(5),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var list bms.CustomerList
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &list))
	assert.Len(t, list.Customers, 1)
}

func TestHandleRequestAssign(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/requests/r-1/assign", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-7", body["userId"])

		json.NewEncoder(w).Encode(bms.Request{ID: "r-1", AssignedTo: "u-7"})
	})

	result, err := s.handleRequestAssign(context.Background(), callRequest(map[string]any{
		"request_id": "r-1",
		"user_id":    "u-7",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var req bms.Request
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &req))
	assert.Equal(t, "u-7", req.AssignedTo)
}

func TestHandleRequestUpdateNoFields(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called")
	})

	result, err := s.handleRequestUpdate(context.Background(), callRequest(map[string]any{
		"request_id": "r-1",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleAppointmentCancel(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointments/a-3/cancel", r.URL.Path)
		json.NewEncoder(w).Encode(bms.Appointment{ID: "a-3", Status: "cancelled"})
	})

	result, err := s.handleAppointmentCancel(context.Background(), callRequest(map[string]any{
		"appointment_id": "a-3",
		"reason":         "customer rescheduled",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var appointment bms.Appointment
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &appointment))
	assert.Equal(t, "cancelled", appointment.Status)
}

func TestHandleToolUpstreamError(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"customer not found"}`, http.StatusNotFound)
	})

	result, err := s.handleCustomerGet(context.Background(), callRequest(map[string]any{
		"customer_id": "missing",
	}))
	require.NoError(t, err, "upstream failures are reported in-band")
	assert.True(t, result.IsError)
}

func TestPromptCustomerReport(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"customer_id": "c-42"}

	result, err := s.promptCustomerReport(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	text, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "bms://customers/c-42")
	assert.Contains(t, text.Text, "summary report")
}

func TestPromptMissingRequiredArgument(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := s.promptProcessNewRequest(context.Background(), mcp.GetPromptRequest{})
	assert.Error(t, err)
}
