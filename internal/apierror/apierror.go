// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// Error is a client-visible failure raised by the service layer.
// Handlers translate it into Status + APIError{Detail}.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func NotFound(detail string) error     { return &Error{Status: http.StatusNotFound, Detail: detail} }
func BadRequest(detail string) error   { return &Error{Status: http.StatusBadRequest, Detail: detail} }
func Forbidden(detail string) error    { return &Error{Status: http.StatusForbidden, Detail: detail} }
func Unauthorized(detail string) error { return &Error{Status: http.StatusUnauthorized, Detail: detail} }

// InsufficientStock is reported as 400, like any other request the caller can fix.
func InsufficientStock(detail string) error {
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 500 for anything else.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
