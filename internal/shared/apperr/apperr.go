// Package apperr classifies the failures the shell can produce.
//
// Each failure site returns an error that either is an *Error or implements
// Kinded, so callers can branch on the kind without string matching:
//
//	if apperr.KindOf(err) == apperr.RequestFailed {
//	    ...
//	}
package apperr

import (
	"errors"
	"fmt"
)

// Kind enumerates failure categories
type Kind int

const (
	Unknown Kind = iota
	HostQueryFailed
	RequestFailed
	RequestNetworkError
	LauncherToolMissing
	LauncherToolFailed
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case HostQueryFailed:
		return "host_query_failed"
	case RequestFailed:
		return "request_failed"
	case RequestNetworkError:
		return "request_network_error"
	case LauncherToolMissing:
		return "launcher_tool_missing"
	case LauncherToolFailed:
		return "launcher_tool_failed"
	default:
		return "unknown"
	}
}

// Kinded is implemented by errors that carry their own kind
type Kinded interface {
	Kind() Kind
}

// Error is a generic classified error
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New creates a classified error for an operation
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}

	return Unknown
}

// Is reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
