package errors

import (
	"fmt"
	"testing"
)

// TestNotFoundError tests NotFoundError formatting and errors.Is support.
func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("customer", "cust-42")

	if got, want := err.Error(), "customer with ID cust-42 not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !Is(err, ErrNotFound) {
		t.Error("expected NotFoundError to match ErrNotFound")
	}

	if Is(err, ErrUnauthorized) {
		t.Error("NotFoundError should not match ErrUnauthorized")
	}
}

// TestValidationError tests ValidationError formatting.
func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "bogus", "must be a valid email address")

	if got := err.Error(); got != "validation failed for field email: must be a valid email address" {
		t.Errorf("unexpected message: %q", got)
	}

	if !Is(err, ErrInvalidInput) {
		t.Error("expected ValidationError to match ErrInvalidInput")
	}

	// Without a field name the message omits the field clause.
	bare := &ValidationError{Message: "empty payload"}
	if got := bare.Error(); got != "validation failed: empty payload" {
		t.Errorf("unexpected message: %q", got)
	}
}

// TestAPIError tests status-code based sentinel matching.
func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
		match  bool
	}{
		{"server error matches upstream unavailable", 503, ErrUpstreamUnavailable, true},
		{"network failure matches upstream unavailable", 0, ErrUpstreamUnavailable, true},
		{"404 matches not found", 404, ErrNotFound, true},
		{"401 matches unauthorized", 401, ErrUnauthorized, true},
		{"403 matches unauthorized", 403, ErrUnauthorized, true},
		{"400 matches nothing", 400, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{StatusCode: tt.status, Message: "boom", Endpoint: "/customers"}
			if got := Is(err, tt.target); got != tt.match {
				t.Errorf("Is(%v, %v) = %v, want %v", err, tt.target, got, tt.match)
			}
		})
	}
}

// TestAPIError_Unwrap tests that wrapped causes remain reachable.
func TestAPIError_Unwrap(t *testing.T) {
	cause := New("connection refused")
	err := &APIError{Message: "request failed", Endpoint: "/requests", Err: cause}

	if !Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

// TestAuthenticationError tests unauthorized matching.
func TestAuthenticationError(t *testing.T) {
	err := &AuthenticationError{Message: "invalid or expired token"}

	if !Is(err, ErrUnauthorized) {
		t.Error("expected AuthenticationError to match ErrUnauthorized")
	}
}

// TestWrapHelpers tests the wrap helper functions.
func TestWrapHelpers(t *testing.T) {
	if WrapResource("get", "customer", "c1", nil) != nil {
		t.Error("wrapping nil should return nil")
	}

	cause := New("boom")
	err := WrapResource("get", "customer", "c1", cause)
	if want := fmt.Sprintf("failed to get customer c1: %v", cause); err.Error() != want {
		t.Errorf("WrapResource = %q, want %q", err.Error(), want)
	}
	if !Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}

	if got := WrapParse("json", "response", cause).Error(); got != "failed to parse json response: boom" {
		t.Errorf("WrapParse = %q", got)
	}

	if got := WrapIO("read", "response body", cause).Error(); got != "failed to read response body: boom" {
		t.Errorf("WrapIO = %q", got)
	}
}
