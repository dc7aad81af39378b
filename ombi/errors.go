package ombi

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid ombi configuration")
	// ErrNoServer indicates the user has no server address configured
	ErrNoServer = errors.New("no ombi server address set")
	// ErrUnauthorized indicates the stored token was rejected
	ErrUnauthorized = errors.New("unauthorized: token missing or expired")
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
)

// APIError represents an Ombi API error
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("ombi API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
