package apperror

import (
	"errors"
	"fmt"
)

// Code identifies a domain failure class. Codes are stable API surface:
// clients branch on them, the HTTP layer maps them to status codes.
type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeEmptyBatch        Code = "EMPTY_BATCH"
	CodeUnknownSession    Code = "UNKNOWN_SESSION"
	CodeUnknownRow        Code = "UNKNOWN_ROW"
	CodeSessionClosed     Code = "SESSION_CLOSED"
	CodeInconsistentLabel Code = "INCONSISTENT_LABEL"
	CodeIndexUnavailable  Code = "INDEX_UNAVAILABLE"
	CodeStaleSelection    Code = "STALE_SELECTION"
	CodeInternal          Code = "INTERNAL"
)

// Error is the typed domain error. Details carries structured context, e.g.
// the offending row indexes of a failed commit validation.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the caller may retry the same request unchanged.
func (e *Error) Retryable() bool {
	return e.Code == CodeIndexUnavailable
}

func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// As extracts the typed error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}
