package dataset

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported by the loader, analyzer and
// visualizer.
type ErrorKind string

const (
	NotFound        ErrorKind = "not_found"
	MalformedInput  ErrorKind = "malformed_input"
	InvalidSelector ErrorKind = "invalid_selector"
	InvalidRequest  ErrorKind = "invalid_request"
	Unexpected      ErrorKind = "unexpected"
)

// Error carries a kind alongside the failing operation and its cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err. Errors that are not *Error are Unexpected.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// MissingColumn reports a column name absent from a dataset.
func MissingColumn(name string) *Error {
	return &Error{Kind: InvalidSelector, Op: "select column", Err: fmt.Errorf("column %q not found", name)}
}
