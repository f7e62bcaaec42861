// Package domainerrors defines the coded error taxonomy shared by all domain
// packages. Domain code attaches a Code to every failure it surfaces; the
// transport layer owns the single mapping from codes to HTTP statuses.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure independently of transport.
type Code string

const (
	// CodeValidation marks malformed or out-of-range input data. Recoverable
	// by the caller fixing the payload.
	CodeValidation Code = "validation"

	// CodeBadRequest marks a structurally unusable request (missing body,
	// unknown action).
	CodeBadRequest Code = "bad_request"

	// CodeUnauthorized marks a rejected credential. All cryptographic
	// rejections collapse to this code with no distinguishing detail.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks an authenticated but disallowed action.
	CodeForbidden Code = "forbidden"

	// CodeNotFound marks a missing resource.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a lifecycle-state precondition failure.
	CodeConflict Code = "conflict"

	// CodeTooManyRequests marks a throttle violation. Distinct from
	// validation so callers can render a "try later" outcome.
	CodeTooManyRequests Code = "too_many_requests"

	// CodeInternal marks an unexpected failure. Never carries caller input.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a caller-facing message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As chains.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in domain code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status. This is the only place the
// mapping lives.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
