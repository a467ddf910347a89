// Package errs defines the domain error kinds shared by every component of
// galahad. Components surface a Kind; the HTTP layer is the sole place that
// maps a Kind to a status code.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a domain failure.
type Kind int

const (
	// Internal covers filesystem errors and classifier panics/errors
	// during synchronous paths. Logged; mapped to 500.
	Internal Kind = iota
	// InvalidName means an identifier failed the regex in idguard.
	InvalidName
	// NotFound means a dataset, document, classifier, or model is absent.
	NotFound
	// AlreadyExists means a dataset create collided with an existing name.
	AlreadyExists
	// AlreadyRegistered means a classifier name was registered twice.
	// Programmer error: aborts the process at startup.
	AlreadyRegistered
	// ConcurrencyRejected means a training request was rejected because a
	// build for the same (classifier, model) is already in flight.
	ConcurrencyRejected
)

func (k Kind) String() string {
	switch k {
	case InvalidName:
		return "InvalidName"
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case AlreadyRegistered:
		return "AlreadyRegistered"
	case ConcurrencyRejected:
		return "ConcurrencyRejected"
	default:
		return "Internal"
	}
}

// Error is a domain failure tagged with a Kind and a human-readable detail
// naming the entity involved.
type Error struct {
	Kind   Kind
	Detail string
	Err    error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &errs.Error{Kind: errs.NotFound}).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error naming the missing entity.
func NotFoundf(format string, args ...any) *Error {
	return newf(NotFound, format, args...)
}

// InvalidNamef builds an InvalidName error.
func InvalidNamef(format string, args ...any) *Error {
	return newf(InvalidName, format, args...)
}

// AlreadyExistsf builds an AlreadyExists error.
func AlreadyExistsf(format string, args ...any) *Error {
	return newf(AlreadyExists, format, args...)
}

// AlreadyRegisteredf builds an AlreadyRegistered error.
func AlreadyRegisteredf(format string, args ...any) *Error {
	return newf(AlreadyRegistered, format, args...)
}

// ConcurrencyRejectedf builds a ConcurrencyRejected error.
func ConcurrencyRejectedf(format string, args ...any) *Error {
	return newf(ConcurrencyRejected, format, args...)
}

// Internalf wraps a lower-level error (usually from the filesystem) as an
// Internal domain error.
func Internalf(cause error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Detail: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the Kind of err, defaulting to Internal for errors that
// were never tagged (e.g. a bare os.PathError that escaped a component).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
