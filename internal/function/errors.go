package function

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes contract errors.
type ErrorCode string

const (
	// ErrCodeArity indicates a wrong number of arguments.
	ErrCodeArity ErrorCode = "NUMBER_OF_ARGUMENTS_DOESNT_MATCH"

	// ErrCodeIllegalType indicates an argument whose declared type violates
	// the contract.
	ErrCodeIllegalType ErrorCode = "ILLEGAL_TYPE_OF_ARGUMENT"
)

// ArityError reports a call with an argument count outside the contract.
// It is always surfaced to the caller and never recovered.
type ArityError struct {
	Function string
	Got      int
	Expected string
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: number of arguments for function %s doesn't match: passed %d, expected %s",
		ErrCodeArity, e.Function, e.Got, e.Expected)
}

// Code returns ErrCodeArity.
func (e *ArityError) Code() ErrorCode { return ErrCodeArity }

// TypeError reports an argument whose declared type violates the contract.
//
// Position is 1-based. Actual is the declared type name of the offending
// argument. A TypeError raised by the dispatcher rather than the validator
// signals an invariant violation and aborts the query.
type TypeError struct {
	Function string
	Position int
	Actual   string
	Expected string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: illegal type %s of argument %d of function %s: %s",
		ErrCodeIllegalType, e.Actual, e.Position, e.Function, e.Expected)
}

// Code returns ErrCodeIllegalType.
func (e *TypeError) Code() ErrorCode { return ErrCodeIllegalType }

// IsArityError returns true if err is or wraps an ArityError.
func IsArityError(err error) bool {
	var ae *ArityError
	return errors.As(err, &ae)
}

// IsTypeError returns true if err is or wraps a TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

// CodeOf extracts the contract error code from err.
// Returns "" for errors outside the contract.
func CodeOf(err error) ErrorCode {
	var ae *ArityError
	if errors.As(err, &ae) {
		return ErrCodeArity
	}
	var te *TypeError
	if errors.As(err, &te) {
		return ErrCodeIllegalType
	}
	return ""
}
