package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation indicates a request that was malformed locally
	// and never sent over the wire, or rejected by the upstream as invalid
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTransport indicates a network-level failure
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeTimeout indicates a deadline exceeded waiting for
	// admission, a response, or a backoff sleep
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimited indicates the upstream still answered 429
	// after all local retries were spent
	ErrorTypeRateLimited ErrorType = "rate_limited"
	// ErrorTypeUnexpectedResponse indicates a response that could not be
	// classified
	ErrorTypeUnexpectedResponse ErrorType = "unexpected_response"
)

// AppError is the base error type for client errors. StatusCode, Body and
// Attempts are zero when the error never reached the wire.
type AppError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Attempts > 1 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a validation error
func Validation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// Validationf creates a validation error with formatting
func Validationf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

// WrapTransport wraps a network failure, recording how many attempts were made
func WrapTransport(message string, attempts int, err error) error {
	return &AppError{
		Type:     ErrorTypeTransport,
		Message:  message,
		Attempts: attempts,
		Err:      err,
	}
}

// WrapTimeout wraps a deadline failure, recording how many attempts were made
func WrapTimeout(message string, attempts int, err error) error {
	return &AppError{
		Type:     ErrorTypeTimeout,
		Message:  message,
		Attempts: attempts,
		Err:      err,
	}
}

// RateLimited creates an error for a 429 that survived all local retries
func RateLimited(statusCode int, body string, attempts int) error {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Message:    "upstream rate limit exceeded",
		StatusCode: statusCode,
		Body:       body,
		Attempts:   attempts,
	}
}

// Unexpected creates an error for a response that could not be classified
func Unexpected(statusCode int, body string, attempts int) error {
	return &AppError{
		Type:       ErrorTypeUnexpectedResponse,
		Message:    "unexpected response from upstream",
		StatusCode: statusCode,
		Body:       body,
		Attempts:   attempts,
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnexpectedResponse
}

// Get returns the underlying AppError, or nil when err is not one
func Get(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
