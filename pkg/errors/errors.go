package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the failures that cross the core's boundary.
type Kind string

const (
	KindSchemaInvalid      Kind = "SCHEMA_INVALID"
	KindUnsatisfiable      Kind = "UNSATISFIABLE"
	KindVerificationFailed Kind = "VERIFICATION_FAILED"
	KindEmptyCandidateSet  Kind = "EMPTY_CANDIDATE_SET"
)

// Error represents a typed timetabling failure.
type Error struct {
	Kind    Kind     `json:"kind"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrUnsatisfiable) holds for any unsatisfiable failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a new Error instance.
func New(kind Kind, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// Wrap attaches context to an existing error.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Sentinel values to be used with errors.Is.
var (
	ErrSchemaInvalid      = New(KindSchemaInvalid, "invalid constraint package")
	ErrUnsatisfiable      = New(KindUnsatisfiable, "unsatisfiable hard constraints")
	ErrVerificationFailed = New(KindVerificationFailed, "no candidate timetable passed verification")
	ErrEmptyCandidateSet  = New(KindEmptyCandidateSet, "no candidate timetables provided")
)

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	clone.Details = append([]string(nil), err.Details...)
	return &clone
}

// FromError extracts the *Error carried by err, if any.
func FromError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err or an empty Kind when err is untyped.
func KindOf(err error) Kind {
	if e, ok := FromError(err); ok {
		return e.Kind
	}
	return ""
}
