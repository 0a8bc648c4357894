// Package errors defines the error taxonomy for external-service failures.
// Every upstream failure is classified at the service boundary so that each
// layer's fallback policy can be stated as a function of the code.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific failure class for AI and storage operations.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates a missing credential or invalid setup.
	// Never retried; triggers the heuristic/degraded path where applicable.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeRateLimitExceeded indicates an upstream HTTP 429.
	// Retryable by the caller's policy; never silently swallowed at the lowest layer.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeTransport indicates a network failure or non-429 HTTP error.
	// Fatal to the specific call; the caller substitutes a safe default.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeMalformedResponse indicates a schema mismatch from an external service.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	// ErrCodeNotFound indicates a missing record.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// CodedError is a structured error carrying a failure class.
type CodedError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CodedError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *CodedError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for the taxonomy.

// Configuration creates a configuration error.
func Configuration(msg string) *CodedError {
	return &CodedError{Code: ErrCodeConfiguration, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *CodedError {
	return &CodedError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Transport creates a transport error.
func Transport(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeTransport, Message: msg, Cause: cause}
}

// MalformedResponse creates a malformed response error.
func MalformedResponse(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeMalformedResponse, Message: msg, Cause: cause}
}

// NotFound creates a not found error.
func NotFound(msg string) *CodedError {
	return &CodedError{Code: ErrCodeNotFound, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *CodedError {
	return &CodedError{Code: ErrCodeInvalidArgument, Message: msg}
}

// Wrap wraps an existing error with a code.
func Wrap(cause error, code ErrorCode, msg string) *CodedError {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error (anywhere in its chain) carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error carries no code.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return defaultCode
}
