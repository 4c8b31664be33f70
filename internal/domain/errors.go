package domain

import (
	"errors"
	"fmt"
)

// Error represents a failure in the API integration layer
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Err
}

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeConnection        = "CONNECTION_ERROR"
	ErrCodeTimeout           = "REQUEST_TIMEOUT"
	ErrCodeMaxRetries        = "MAX_RETRIES_EXCEEDED"
	ErrCodeUnsupportedMethod = "UNSUPPORTED_METHOD"
)

func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewConnectionError(message string, err error) *Error {
	return &Error{
		Code:    ErrCodeConnection,
		Message: message,
		Err:     err,
	}
}

func NewTimeoutError(message string, err error) *Error {
	return &Error{
		Code:    ErrCodeTimeout,
		Message: message,
		Err:     err,
	}
}

func NewMaxRetriesError(maxRetries int) *Error {
	return &Error{
		Code:    ErrCodeMaxRetries,
		Message: fmt.Sprintf("maximum retries reached (%d)", maxRetries),
	}
}

func NewUnsupportedMethodError(method Method) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedMethod,
		Message: fmt.Sprintf("unsupported method: %s", method),
	}
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func IsValidationError(err error) bool { return hasCode(err, ErrCodeValidation) }
func IsConnectionError(err error) bool { return hasCode(err, ErrCodeConnection) }
func IsTimeoutError(err error) bool    { return hasCode(err, ErrCodeTimeout) }
func IsMaxRetriesError(err error) bool { return hasCode(err, ErrCodeMaxRetries) }

// APIError carries a structured non-2xx outcome back to the caller.
// It is derived from a Response and never retried by itself.
type APIError struct {
	StatusCode int
	Message    string
	Body       map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status: %d): %s", e.StatusCode, e.Message)
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
