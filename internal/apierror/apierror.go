// Package apierror provides the standardized error envelope for the API.
// All errors returned to clients go through this package so that internal
// details (stack traces, DB errors) never leak.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Conflict carries the conflicting record when the failure is a business
// conflict the client can resolve (duplicate member, stock shortfall).
type APIError struct {
	Detail   string      `json:"detail"`
	Conflict interface{} `json:"conflict,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// NewConflict attaches the conflicting record for client-side reconciliation.
func NewConflict(msg string, conflict interface{}) *APIError {
	return &APIError{Detail: msg, Conflict: conflict}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
