package api

import (
	"errors"
	"fmt"
)

// ErrNoCompletions is returned when a CompletionData holds no entries to
// select a completion from.
var ErrNoCompletions = errors.New("completion data contains no completions")

// MarkupDecodeError reports a <tool_call> span whose body is not a valid
// JSON object of the required {name, arguments} shape. The extraction that
// produced it committed nothing: the message is left as received.
type MarkupDecodeError struct {
	Span string
	Err  error
}

// Error implements the error interface.
func (e *MarkupDecodeError) Error() string {
	return fmt.Sprintf("decoding tool call markup %q: %v", e.Span, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *MarkupDecodeError) Unwrap() error {
	return e.Err
}

// ErrorType represents the category of a platform API error.
type ErrorType string

const (
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
)

// APIError represents a structured error reported by the platform API or by
// the transport that talks to it.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError as the platform's top-level error payload.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for platform-side failures.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewTooManyRequestsError creates an APIError for rate limiting.
func NewTooManyRequestsError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTooManyRequests,
		Message: message,
	}
}
