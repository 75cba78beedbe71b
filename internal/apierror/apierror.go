// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// InsufficientStock extends the envelope with the figures the caller needs
// to re-present the form: what was requested and what is actually on hand.
type InsufficientStock struct {
	Detail    string `json:"detail"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func NewInsufficientStock(detail string, requested, available int) *InsufficientStock {
	return &InsufficientStock{Detail: detail, Requested: requested, Available: available}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
