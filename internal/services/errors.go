// Package services sits between the HTTP handlers and the processing pipeline.
// It owns the request timeout boundary and translates pipeline errors into
// coded ServiceErrors.
package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/soltixdb/sfb/internal/analytics"
)

// Error codes returned to clients
const (
	CodeInvalidDataset = "E001"
	CodeDataError      = "E002"
	CodeComputation    = "E003"
	CodeTimeout        = "E004"
	CodeUnauthorized   = "E005"
	CodeRateLimited    = "E006"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	status int
	cause  error
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the underlying pipeline error, if any
func (e *ServiceError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the status code the error is served with
func (e *ServiceError) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	return StatusForCode(e.Code)
}

// StatusForCode maps an error code to its default HTTP status
func StatusForCode(code string) int {
	switch code {
	case CodeInvalidDataset, CodeDataError:
		return http.StatusBadRequest
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewValidationError is an E002 for a request body that violates the schema (HTTP 422)
func NewValidationError(message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    CodeDataError,
		Message: message,
		Details: details,
		status:  http.StatusUnprocessableEntity,
	}
}

// FromError converts any pipeline error into a ServiceError
func FromError(err error) *ServiceError {
	if err == nil {
		return nil
	}

	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}

	code := CodeComputation
	message := "Statistical computation failed"

	switch {
	case errors.Is(err, analytics.ErrInvalidDataset):
		code, message = CodeInvalidDataset, err.Error()
	case errors.Is(err, analytics.ErrEmptyData),
		errors.Is(err, analytics.ErrInsufficientData),
		errors.Is(err, analytics.ErrNonFiniteData):
		code, message = CodeDataError, err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		code, message = CodeTimeout, "Request timed out before the statistical package was ready"
	}

	return &ServiceError{Code: code, Message: message, cause: err}
}
