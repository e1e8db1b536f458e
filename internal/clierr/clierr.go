// Package clierr defines structured errors shared by the taskboard CLI, the
// task store and the TUI.
package clierr

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	// NetworkError covers transport failures and non-2xx responses.
	NetworkError = "NETWORK_ERROR"
	// DecodeError means the response body was not what the API promised.
	DecodeError = "DECODE_ERROR"
	// InvalidInput is the validation error (e.g. an empty task title).
	InvalidInput = "INVALID_INPUT"

	InvalidTaskID = "INVALID_TASK_ID"
	InvalidStatus = "INVALID_STATUS"
	TaskNotFound  = "TASK_NOT_FOUND"
	BoundaryError = "BOUNDARY_ERROR"
	InvalidConfig = "INVALID_CONFIG"
	InternalError = "INTERNAL_ERROR"

	ConfirmationReq = "CONFIRMATION_REQUIRED"
)

// Error is a coded error carrying an optional underlying cause.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// New creates an Error with the given code and message.
func New(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error whose message is msg followed by the cause.
func Wrap(code string, err error, msg string) *Error {
	return &Error{Code: code, Message: msg + ": " + err.Error(), Err: err}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails attaches structured details and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode maps the error code to a process exit code.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // internal errors exit with 2
	}
	return 1
}

// HasCode reports whether err wraps an *Error with the given code.
func HasCode(err error, code string) bool {
	var cliErr *Error
	return errors.As(err, &cliErr) && cliErr.Code == code
}

// SilentError makes the CLI exit with Code without printing anything.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
