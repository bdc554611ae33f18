package cmderrors

import (
	goerrors "errors"
	"fmt"
)

// Error codes for the different categories of interpreter failures
const (
	// Pre-parse screening
	CodeSecurityViolation = "SECURITY_VIOLATION"

	// Parsing
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeDecodeFailure = "DECODE_FAILURE"

	// Dispatch
	CodeNotFound    = "NOT_FOUND"
	CodeForbidden   = "FORBIDDEN"
	CodeNotCallable = "NOT_CALLABLE"

	// Policy loading (CLI side)
	CodePolicyRead     = "POLICY_READ_ERROR"
	CodePolicyDecode   = "POLICY_DECODE_ERROR"
	CodePolicyInvalid  = "POLICY_VALIDATION_ERROR"
	CodeExecutionError = "EXECUTION_ERROR"
)

// Error is a structured interpreter error with a stable code and optional
// key/value context for reporting layers.
type Error struct {
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap allows error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code
func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new Error wrapping an existing error
func Wrap(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *Error) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Code extracts the error code from err, unwrapping as needed.
// Returns "" when no *Error is found in the chain.
func Code(err error) string {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code string) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = goerrors.Unwrap(err)
	}
	return false
}
