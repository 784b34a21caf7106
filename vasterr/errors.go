// Package vasterr defines the error-kind vocabulary shared across the
// indexing and query-evaluation core.
package vasterr

import (
	"errors"
	"strings"
)

// Kind classifies a core error per the failure taxonomy of the design.
type Kind string

const (
	KindParse               Kind = "parse_error"
	KindTypeMismatch        Kind = "type_mismatch"
	KindUnsupportedOperator Kind = "unsupported_operator"
	KindSchemaResolution    Kind = "schema_resolution_error"
	KindIO                  Kind = "io_error"
	KindInternalInvariant   Kind = "internal_invariant_violation"
)

// Error is the error type returned by core packages. Op names the
// operation that failed (e.g. "bitstream.append"); Msg is a human summary;
// Err, if set, is the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// New constructs an Error. Use the With* option functions to fill it in.
func New(kind Kind, opts ...func(*Error)) *Error {
	e := &Error{Kind: kind}
	for _, o := range opts {
		o(e)
	}
	return e
}

func WithOp(op string) func(*Error)   { return func(e *Error) { e.Op = op } }
func WithMsg(msg string) func(*Error) { return func(e *Error) { e.Msg = msg } }
func WithErr(err error) func(*Error)  { return func(e *Error) { e.Err = err } }

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(string(e.Kind))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err if it is (or wraps) an *Error, or "" if
// err is nil or carries no Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
