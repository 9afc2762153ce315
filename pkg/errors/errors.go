// Package errors provides structured error types for logocell.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every conversion failure carries one of the codes below. All of them are
// fatal to the conversion that raised them; nothing in the pipeline retries.
//
//   - INVALID_INPUT: empty or malformed image, bad configuration values
//   - MISSING_CONSTRAINT: a referenced layer is absent from the constraint document
//   - UNRESOLVABLE_DIAGONAL_PATTERN: the diagonal fix-up pass limit was exceeded
//   - GEOMETRY_VIOLATION: a shape cannot satisfy its rules under the size ceiling
//   - EMIT_FAILURE: a GDS/LEF/JSON/PNG writer or the output file system failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "pixel size must be > 0, got %g", size)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEmitFailure, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Conversion errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeMissingConstraint   Code = "MISSING_CONSTRAINT"
	ErrCodeUnresolvablePattern Code = "UNRESOLVABLE_DIAGONAL_PATTERN"
	ErrCodeGeometryViolation   Code = "GEOMETRY_VIOLATION"
	ErrCodeEmitFailure         Code = "EMIT_FAILURE"

	// Service errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a conversion failure with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code, so a bare New(code, "") works
// as a target for the standard errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// as returns the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error, or "" for uncoded errors.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix or cause chain.
// Uncoded errors are returned as their full text.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// EmitFailure wraps a writer or file system error. Errors that already carry
// a code are returned unchanged so the original classification survives.
func EmitFailure(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	if GetCode(cause) != "" {
		return cause
	}
	return Wrap(ErrCodeEmitFailure, cause, format, args...)
}
