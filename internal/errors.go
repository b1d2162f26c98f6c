package internal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures. None of them is fatal: the caller
// reports the error and carries on with the next item, file or command.
type ErrorKind string

const (
	SourceNotFound     ErrorKind = "source_not_found"
	SourceEmpty        ErrorKind = "source_empty"
	MalformedItem      ErrorKind = "malformed_item"
	MalformedContainer ErrorKind = "malformed_container"
	IOFailure          ErrorKind = "io_failure"
)

type Error struct {
	Kind    ErrorKind
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Source != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Kind, e.Source, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(kind ErrorKind, source string, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if e.Kind == kind {
		return true
	}
	return IsKind(e.Cause, kind)
}
