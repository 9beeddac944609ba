package session

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeUnknownFunction indicates a call to an unregistered name.
	ErrCodeUnknownFunction ErrorCode = "UNKNOWN_FUNCTION"

	// ErrCodeResolverMismatch indicates an executed column whose type differs
	// from the bound return type.
	ErrCodeResolverMismatch ErrorCode = "RESOLVER_MISMATCH"

	// ErrCodeExecution indicates a batch failed to execute.
	ErrCodeExecution ErrorCode = "EXECUTION_FAILED"
)

// Error is a failure detected while binding or executing a call.
// Err holds the underlying cause, including contract errors.
type Error struct {
	Code     ErrorCode
	Message  string
	QueryID  string
	Function string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s (query=%s, function=%s)", e.Code, e.Message, e.QueryID, e.Function)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// IsResolverMismatch returns true if err is a resolver mismatch.
// Uses errors.As to handle wrapped errors.
func IsResolverMismatch(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeResolverMismatch
	}
	return false
}

// IsUnknownFunction returns true if err reports an unregistered function.
func IsUnknownFunction(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeUnknownFunction
	}
	return false
}
