// Package response provides standardized HTTP response structures for
// the BMS MCP server's HTTP API. All endpoints return a consistent
// format with a data field for successful responses and an error field
// for failures.
package response

import (
	"encoding/json"
	"net/http"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{Code: code, Message: message, Details: details},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail("UNAUTHORIZED", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusMethodNotAllowed, Fail("METHOD_NOT_ALLOWED", message, details))
}

// TooManyRequests writes a 429 error response.
func TooManyRequests(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusTooManyRequests, Fail("RATE_LIMITED", message, details))
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusInternalServerError, Fail("INTERNAL_ERROR", message, details))
}

// BadGateway writes a 502 error response for upstream BMS failures.
func BadGateway(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadGateway, Fail("UPSTREAM_ERROR", message, details))
}
