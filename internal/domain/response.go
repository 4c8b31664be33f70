package domain

import (
	"fmt"
	"strings"
	"time"
)

// retryableStatusCodes are the HTTP statuses for which a repeated attempt is
// considered likely to succeed.
var retryableStatusCodes = map[int]struct{}{
	408: {}, // Request Timeout
	429: {}, // Too Many Requests
	500: {}, // Internal Server Error
	502: {}, // Bad Gateway
	503: {}, // Service Unavailable
	504: {}, // Gateway Timeout
}

// IsRetryableStatus reports whether the status code is in the retryable set.
func IsRetryableStatus(statusCode int) bool {
	_, ok := retryableStatusCodes[statusCode]
	return ok
}

// Response is the outcome of one executed request.
//
// Body holds the parsed JSON object when the API returned one; non-JSON
// payloads keep Body nil with the raw bytes preserved in RawBody.
type Response struct {
	RequestID  string
	StatusCode int
	Headers    map[string]string
	Body       map[string]any
	RawBody    []byte

	ResponseTime time.Duration
	ReceivedAt   time.Time
}

// NewResponse builds a Response, rejecting status codes outside 100-599.
func NewResponse(requestID string, statusCode int, headers map[string]string, body map[string]any, rawBody []byte, responseTime time.Duration) (*Response, error) {
	if statusCode < 100 || statusCode >= 600 {
		return nil, NewValidationError("invalid status code: %d", statusCode)
	}
	return &Response{
		RequestID:    requestID,
		StatusCode:   statusCode,
		Headers:      headers,
		Body:         body,
		RawBody:      rawBody,
		ResponseTime: responseTime,
		ReceivedAt:   time.Now(),
	}, nil
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

func (r *Response) IsRetryable() bool {
	return IsRetryableStatus(r.StatusCode)
}

func (r *Response) HasJSONBody() bool {
	return r.Body != nil
}

// ErrorMessage extracts an error message from the common response shapes:
// {"error": ...}, {"message": ...} or {"errors": [...]}.
func (r *Response) ErrorMessage() string {
	if !r.HasJSONBody() {
		return ""
	}
	if v, ok := r.Body["error"]; ok {
		return fmt.Sprint(v)
	}
	if v, ok := r.Body["message"]; ok {
		return fmt.Sprint(v)
	}
	if v, ok := r.Body["errors"]; ok {
		if list, ok := v.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			return strings.Join(parts, "; ")
		}
	}
	return ""
}

// AsError converts a non-success response into an APIError. It returns nil
// for 2xx responses; the caller decides how to interpret the failure.
func (r *Response) AsError() *APIError {
	if r.IsSuccess() {
		return nil
	}
	message := r.ErrorMessage()
	if message == "" {
		message = fmt.Sprintf("HTTP %d", r.StatusCode)
	}
	return &APIError{
		StatusCode: r.StatusCode,
		Message:    message,
		Body:       r.Body,
	}
}

// LogAttrs returns the loggable view of the response
func (r *Response) LogAttrs() map[string]any {
	return map[string]any{
		"request_id":       r.RequestID,
		"status_code":      r.StatusCode,
		"is_success":       r.IsSuccess(),
		"response_time_ms": r.ResponseTime.Milliseconds(),
		"has_body":         r.HasJSONBody(),
	}
}
