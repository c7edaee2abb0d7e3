// Package errors implements the error taxonomy for the Bolt core.
//
// Every operation that can fail returns (or wraps) an *Error carrying a
// Kind: Handshake, Auth, Cypher, Protocol, Connection, Ignored,
// InvalidInput. Callers that only care
// whether a failure is worth retrying should use IsTransient; callers
// that want the server-reported detail should use Wire.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an Error for recovery/retry/reporting purposes.
type Kind int

const (
	// KindUnknown is the zero value; it should not normally escape this package.
	KindUnknown Kind = iota
	// KindHandshake means the server rejected the version handshake or closed mid-handshake.
	KindHandshake
	// KindAuth means HELLO/INIT/LOGON failed authentication.
	KindAuth
	// KindCypher means RUN/PULL/DISCARD returned a FAILURE from the query itself.
	KindCypher
	// KindProtocol means the peer sent an unexpected message shape, signature, or
	// a message illegal for the negotiated version.
	KindProtocol
	// KindConnection means a socket-level failure: timeout, reset, refused, closed mid-stream.
	KindConnection
	// KindIgnored means the server answered IGNORED because it was already in the Failed state.
	KindIgnored
	// KindInvalidInput means a caller-supplied argument was invalid; no wire I/O occurred.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindHandshake:
		return "Handshake"
	case KindAuth:
		return "Auth"
	case KindCypher:
		return "Cypher"
	case KindProtocol:
		return "Protocol"
	case KindConnection:
		return "Connection"
	case KindIgnored:
		return "Ignored"
	case KindInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}

// Error is the base error type for the core. It carries a Kind, a
// human-readable message, wire-level detail reported by the server (if
// any), and a wrapped cause preserved via github.com/pkg/errors so that
// %+v prints a stack trace at the point the error was first created.
type Error struct {
	kind    Kind
	msg     string
	wrapped error
	wire    map[string]interface{}
}

// New creates a new Error of the given Kind with a stack trace attached.
func New(kind Kind, msg string, args ...interface{}) *Error {
	formatted := fmt.Sprintf(msg, args...)
	return &Error{
		kind:    kind,
		msg:     formatted,
		wrapped: pkgerrors.New(formatted),
	}
}

// Wrap wraps an existing error with additional context, preserving its
// Kind if it already is an *Error, otherwise defaulting to
// KindConnection since most wrapped errors originate below the protocol
// layer (socket errors).
func Wrap(err error, msg string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	formatted := fmt.Sprintf(msg, args...)
	kind := KindConnection
	if e, ok := err.(*Error); ok {
		kind = e.kind
	}
	return &Error{
		kind:    kind,
		msg:     formatted,
		wrapped: pkgerrors.Wrap(err, formatted),
	}
}

// WrapKind wraps an existing error, forcing the resulting Kind.
func WrapKind(kind Kind, err error, msg string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	formatted := fmt.Sprintf(msg, args...)
	return &Error{
		kind:    kind,
		msg:     formatted,
		wrapped: pkgerrors.Wrap(err, formatted),
	}
}

// WithWire attaches server-reported wire detail (the FAILURE/IGNORED
// metadata map) to the error and returns the receiver for chaining.
func (e *Error) WithWire(metadata map[string]interface{}) *Error {
	e.wire = metadata
	return e
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Wire returns the server-reported detail, if any.
func (e *Error) Wire() map[string]interface{} { return e.wire }

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.wire) > 0 {
		return fmt.Sprintf("[%s] %s (server: %+v)", e.kind, e.msg, e.wire)
	}
	return fmt.Sprintf("[%s] %s", e.kind, e.msg)
}

// Format supports %+v to print the underlying stack trace, delegating to
// github.com/pkg/errors's formatting of the wrapped cause.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.wrapped != nil {
		fmt.Fprintf(s, "%s\n%+v", e.Error(), e.wrapped)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Unwrap allows errors.Is/errors.As (stdlib) to see through to the cause.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Inner returns the immediately wrapped error, if any.
func (e *Error) Inner() error {
	return e.wrapped
}

// InnerMost walks the wrapped chain down to the original, non-*Error cause.
func (e *Error) InnerMost() error {
	var cause error = e
	for {
		inner, ok := cause.(*Error)
		if !ok {
			return cause
		}
		next := pkgerrors.Cause(inner.wrapped)
		if next == nil {
			return inner
		}
		cause = next
	}
}

// IsTransient reports whether the error represents a condition that
// with_retry should retry: a Connection-kind failure, since Handshake,
// Auth, Cypher, Protocol, Ignored and InvalidInput are never transient.
func IsTransient(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.kind == KindConnection
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.kind == kind
}
