// Package errors provides custom error types for the BMS MCP server.
// These errors enable programmatic error checking and consistent error
// reporting across the BMS client, the MCP surface, and the event relay.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
var As = errors.As

// Common sentinel errors for the BMS MCP server.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing or rejected credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstreamUnavailable indicates that the BMS API is temporarily unreachable.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrRateLimited indicates that the request rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrShuttingDown indicates that the process is shutting down.
	ErrShuttingDown = errors.New("shutting down")
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error returned by the BMS REST API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("BMS API error (status %d) on %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("BMS API error on %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUpstreamUnavailable:
		return e.StatusCode == 0 || e.StatusCode >= 500
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrUnauthorized:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}

// AuthenticationError represents a credential verification failure.
type AuthenticationError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Message
}

// Unwrap implements errors.Unwrap.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// WrapResource wraps an error with resource operation context.
func WrapResource(op, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	if id != "" {
		return fmt.Errorf("failed to %s %s %s: %w", op, resource, id, err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, resource, err)
}

// WrapParse wraps a parsing error with format context.
func WrapParse(format, subject string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to parse %s %s: %w", format, subject, err)
}

// WrapIO wraps an I/O error with operation context.
func WrapIO(op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s %s: %w", op, subject, err)
}
