// Package scanerrors provides typed error handling for the triage engine.
//
// This package defines domain-specific error types that enable better error
// classification, retry decisions, and user feedback. All errors support the
// standard errors.Is() and errors.As() functions for error inspection.
package scanerrors

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindAccessDenied indicates the operation lacked sufficient privilege
	// (e.g. a non-elevated process reading a protected registry hive).
	KindAccessDenied ErrorKind = iota
	// KindSystemAPIError indicates a Win32/syscall failure not covered by
	// a more specific kind.
	KindSystemAPIError
	// KindNotFound indicates the requested artifact does not exist on
	// this system (missing registry key, absent prefetch directory, ...).
	KindNotFound
	// KindInvalidData indicates collected data could not be parsed or
	// failed a structural sanity check (bad signature, truncated record).
	KindInvalidData
	// KindNetworkError indicates failure querying network state.
	KindNetworkError
	// KindTimeout indicates an operation exceeded its allotted time.
	KindTimeout
	// KindUnknown is the fallback for unclassified failures.
	KindUnknown
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAccessDenied:
		return "access denied"
	case KindSystemAPIError:
		return "system API error"
	case KindNotFound:
		return "not found"
	case KindInvalidData:
		return "invalid data"
	case KindNetworkError:
		return "network error"
	case KindTimeout:
		return "timeout"
	case KindUnknown:
		return "unknown error"
	default:
		return "unknown error"
	}
}

// Error represents an error that occurred while collecting a forensic
// artifact.
type Error struct {
	// Op is the operation that failed (e.g. "process.enumerate",
	// "registry.read_run_keys").
	Op string
	// Err is the underlying error.
	Err error
	// Kind is the error classification.
	Kind ErrorKind
	// Detail provides additional context about the error.
	Detail string
}

// Error returns the error message.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	var msg string
	if e.Op != "" {
		msg = fmt.Sprintf("%s: ", e.Op)
	}
	if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Kind.String()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the error matches the target.
// It matches if the target is an *Error with the same Kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Fatal reports whether this error's kind is classified fatal. Fatal here
// never means "abort the scan" — no collector error does that, the scan
// always runs to completion — it means collectlog.DegradeValue logs the
// failure at ERROR rather than WARN, which in turn can push the process
// exit code to 2.
func (e *Error) Fatal() bool {
	switch e.Kind {
	case KindSystemAPIError, KindInvalidData:
		return true
	default:
		return false
	}
}

// Retryable reports whether retrying the operation that produced this
// error has a reasonable chance of succeeding.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetworkError, KindTimeout:
		return true
	default:
		return false
	}
}

// UserMessage returns a short operator-facing sentence hinting at a
// remedy, suitable for the collection log.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindAccessDenied:
		return "Try running as administrator"
	case KindNotFound:
		return "The requested artifact does not exist on this system"
	case KindNetworkError:
		return "Network query failed; retrying may succeed"
	case KindTimeout:
		return "Operation timed out; retrying may succeed"
	case KindInvalidData:
		return "Collected data was malformed or truncated"
	case KindSystemAPIError:
		return "A system API call failed"
	default:
		return "An unknown error occurred"
	}
}

// New creates a new Error with the given kind.
func New(kind ErrorKind, op string, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: detail,
	}
}

// Wrap wraps an error with collector context.
func Wrap(err error, kind ErrorKind, op string) *Error {
	return &Error{
		Op:   op,
		Err:  err,
		Kind: kind,
	}
}

// WrapWithDetail wraps an error with additional detail.
func WrapWithDetail(err error, kind ErrorKind, op string, detail string) *Error {
	return &Error{
		Op:     op,
		Err:    err,
		Kind:   kind,
		Detail: detail,
	}
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind ErrorKind) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind == kind
	}
	return false
}

// GetKind returns the error kind if the error is an *Error.
func GetKind(err error) (ErrorKind, bool) {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind, true
	}
	return 0, false
}

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
