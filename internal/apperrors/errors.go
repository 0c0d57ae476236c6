// Package apperrors defines the client-visible failures of the service layer.
package apperrors

import (
	"errors"
	"net/http"
)

// Code classifies a ServiceError
type Code string

const (
	CodeMalformedRequest Code = "malformed_request"
	CodeValidation       Code = "validation_failed"
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict"
	CodeUnauthorized     Code = "authentication_failed"
	CodeInternal         Code = "internal_error"
)

// ServiceError is returned by the service layer for every failure a caller should see.
// Message is safe to put in a response body; Err keeps the underlying cause for logs.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// UnsupportedMediaType reports a request body that is not JSON
func UnsupportedMediaType(message string) *ServiceError {
	return &ServiceError{Code: CodeMalformedRequest, Message: message, HTTPStatus: http.StatusUnsupportedMediaType}
}

// BadRequest reports a body that could not be decoded
func BadRequest(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeMalformedRequest, Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

// Validation reports missing or malformed fields
func Validation(message string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NotFound reports a missing row
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Conflict reports a uniqueness clash. Duplicate registrations are client errors (400).
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusBadRequest}
}

// StillReferenced reports a delete blocked by rows that point at the target
func StillReferenced(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict, Err: err}
}

// Unauthorized reports failed authentication
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// Internal wraps an unexpected persistence failure. The raw error text becomes the message.
func Internal(err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: err.Error(), HTTPStatus: http.StatusInternalServerError, Err: err}
}

// As extracts a ServiceError from err's chain
func As(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
