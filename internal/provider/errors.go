package provider

import (
	"fmt"
)

// APIError is the error type providers raise for client-visible failures.
// The web layer's exception filter serializes it to JSON; every other error
// type passes through untouched.
type APIError struct {
	// Status is the HTTP status code, defaulted to 500 when zero.
	Status int

	// Code is an optional machine-readable error code.
	Code string

	// Message is an optional human-readable message.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider api error: status %d", e.Status)
	}

	return fmt.Sprintf("provider api error: status %d: %s", e.Status, e.Message)
}

// NewAPIError creates an APIError with the given status, code and message.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}
