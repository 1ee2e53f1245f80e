// Package apperr defines the error kinds shared by the ordering engine, the
// hierarchy service and the transport layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrOutOfRange     = errors.New("position out of range")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrConsistency    = errors.New("ordering consistency violation")
	ErrTransient      = errors.New("transient store failure")
	ErrInvalid        = errors.New("invalid request")
)

var kinds = []error{
	ErrNotFound,
	ErrForbidden,
	ErrOutOfRange,
	ErrInvalidPayload,
	ErrConsistency,
	ErrTransient,
	ErrInvalid,
}

// Error carries a kind sentinel, the failing operation and optional
// per-field detail for caller-correctable errors.
type Error struct {
	Kind   error
	Op     string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func New(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Newf(kind error, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func WithFields(kind error, op string, fields map[string]string) *Error {
	return &Error{Kind: kind, Op: op, Fields: fields}
}

// KindOf returns the kind sentinel carried by err, or nil for errors that
// did not originate in this package.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// FieldsOf returns the field detail of the outermost *Error in the chain.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
