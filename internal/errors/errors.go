// Package errors defines the typed error taxonomy a generation request can
// fail with: NotSupported, MetadataCorrupt, and Cancelled are returned as
// errors; a name absent from the metadata is reported as a plain false with a
// nil error by the facade's GenerateBy* calls, while NotFound is the error
// the facade's work loop returns, unconverted, when a scheduled dependency
// key names no metadata entity. DownstreamDiagnostic is never raised by this module —
// it is a property the generator guarantees rather than an error it throws —
// but the Kind is still named so callers can recognize it in documentation
// and in the rare case a downstream compiler reports back through it.
package errors

import "fmt"

// Kind identifies which point of §7 of the specification an error belongs to.
type Kind int

const (
	// NotSupported: the caller explicitly requested a forbidden API.
	NotSupported Kind = iota
	// NotFound: the requested name is absent from the metadata.
	NotFound
	// MetadataCorrupt: the metadata reader rejected the input; fatal.
	MetadataCorrupt
	// Cancelled: cooperative cancellation was observed mid-request.
	Cancelled
	// DownstreamDiagnostic: emitted code failed to compile under the host's
	// diagnostic rules. Not raised internally; named for completeness.
	DownstreamDiagnostic
)

func (k Kind) String() string {
	switch k {
	case NotSupported:
		return "not_supported"
	case NotFound:
		return "not_found"
	case MetadataCorrupt:
		return "metadata_corrupt"
	case Cancelled:
		return "cancelled"
	case DownstreamDiagnostic:
		return "downstream_diagnostic"
	default:
		return "unknown"
	}
}

// Error is the generator's error type. It wraps an optional underlying cause
// so callers can still use errors.Is/errors.As against that cause.
type Error struct {
	Kind    Kind
	Subject string // the name/pattern the request was about, when applicable
	Cause   error
}

func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

func Wrap(kind Kind, subject string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, Cause: cause}
}

func (e *Error) Error() string {
	if e.Subject == "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
		}
		return e.Kind.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Subject, e.Cause)
	}
	return fmt.Sprintf("%s %q", e.Kind, e.Subject)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, New(NotSupported, "")) match any *Error of the same
// Kind, ignoring Subject and Cause. The `Is*` helpers below do not use it;
// they walk the chain themselves via hasKind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func IsNotSupported(err error) bool { return hasKind(err, NotSupported) }
func IsNotFound(err error) bool     { return hasKind(err, NotFound) }
func IsMetadataCorrupt(err error) bool { return hasKind(err, MetadataCorrupt) }
func IsCancelled(err error) bool    { return hasKind(err, Cancelled) }

func hasKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
