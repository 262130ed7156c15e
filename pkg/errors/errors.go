// Package errors provides structured error types for gitfind.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Three codes make up the taxonomy of a failed summary:
//   - INVALID_INPUT: the repository reference or configuration is malformed
//   - REMOTE_ERROR: an upstream API call failed (non-2xx or transport error)
//   - INVALID_RESPONSE: an upstream response could not be decoded
//
// A REMOTE_ERROR carries a [*RemoteError] in its cause chain identifying the
// failing endpoint and HTTP status.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid repository reference: %s", ref)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRemote, origErr, "fetch %s", endpoint)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// ErrCodeInvalidInput marks a malformed repository reference or bad configuration.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeRemote marks a failed upstream API call.
	ErrCodeRemote Code = "REMOTE_ERROR"

	// ErrCodeShape marks an upstream response with an unusable body.
	ErrCodeShape Code = "INVALID_RESPONSE"

	// ErrCodeInternal marks unexpected internal failures.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message followed by the cause, without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// RemoteError describes a failed call to an upstream API endpoint.
// StatusCode is zero when the request never produced a response.
type RemoteError struct {
	Endpoint   string // Logical endpoint name, e.g. "contributors"
	URL        string // Requested URL
	StatusCode int    // HTTP status, 0 for transport failures
	Err        error  // Sentinel or transport error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	target := e.URL
	if e.Endpoint != "" {
		target = e.Endpoint + " endpoint"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s returned status %d", target, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", target, e.Err)
	}
	return target + " request failed"
}

// Unwrap returns the wrapped sentinel or transport error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// AsRemote returns the first *RemoteError in err's chain.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
