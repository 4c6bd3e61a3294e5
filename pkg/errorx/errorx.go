// Package errorx defines the business error type used across the service
// layer. A CodeError carries a business code alongside the message and can
// wrap an underlying error for errors.Is/errors.As traversal.
package errorx

import (
	"errors"
	"fmt"
)

// CodeError is an error with a business code attached.
type CodeError struct {
	Code  int    // business code, see constants below
	Msg   string // user-facing message
	cause error  // wrapped underlying error
}

func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap supports errors.Is/errors.As on the wrapped cause.
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without a cause.
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a business code and message to an underlying error.
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...), cause: err}
}

// GetCode extracts the business code from err, or CodeServerBusy when err is
// not a CodeError.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business codes.
const (
	CodeSuccess         = 1000
	CodeInvalidParam    = 1001
	CodeUserExist       = 1002
	CodeUserNotExist    = 1003
	CodeInvalidPassword = 1004
	CodeServerBusy      = 1005
	CodeUnauthorized    = 1006
	CodeForbidden       = 1007
	CodeNotFound        = 1008
	CodeConflict        = 1009
	CodeDBError         = 1010
	CodeCacheError      = 1011
)

// Predefined instances for the most common failures.
var (
	ErrInvalidParam = New(CodeInvalidParam, "invalid request parameters")
	ErrUnauthorized = New(CodeUnauthorized, "authentication required")
	ErrServerBusy   = New(CodeServerBusy, "server busy, please retry later")
)

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}
