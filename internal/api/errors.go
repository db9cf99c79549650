// Package api provides error types for storage backend responses.
package api

import (
	"errors"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindValidationRejected means the backend declined business input
	// (bad credentials, duplicate email, bad upload).
	KindValidationRejected Kind = iota

	// KindUnauthorized means the token is missing, expired, or invalid.
	KindUnauthorized

	// KindNotFound means the file id is unknown or already deleted.
	KindNotFound

	// KindConnection means no response reached the client at all.
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindValidationRejected:
		return "validation_rejected"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Error is a classified gateway failure. Message carries the backend's
// detail text verbatim when one was returned, so the UI can surface it
// as-is.
type Error struct {
	Kind    Kind
	Message string
	Status  int   // HTTP status, 0 for transport-level failures
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an Unauthorized gateway error.
func IsUnauthorized(err error) bool {
	return hasKind(err, KindUnauthorized)
}

// IsNotFound reports whether err is a NotFound gateway error.
func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

// IsConnectionError reports whether err is a transport-level failure
// (no response reached the client).
func IsConnectionError(err error) bool {
	return hasKind(err, KindConnection)
}

// IsValidationRejected reports whether err is a backend business rejection.
func IsValidationRejected(err error) bool {
	return hasKind(err, KindValidationRejected)
}

func hasKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// Message returns the user-facing text for a gateway failure: the
// backend's detail for business errors, a fixed connection message for
// transport failures, and the plain error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Kind == KindConnection {
			return "Connection error. Please try again."
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return err.Error()
}

// connectionError wraps a transport-level failure.
func connectionError(err error) *Error {
	return &Error{
		Kind:    KindConnection,
		Message: "connection failed",
		Err:     err,
	}
}

// statusError classifies a backend-reported failure by HTTP status.
// fallback is used when the response carried no detail text.
func statusError(status int, detail, fallback string) *Error {
	if detail == "" {
		detail = fallback
	}
	kind := KindValidationRejected
	switch status {
	case 401, 403:
		kind = KindUnauthorized
	case 404:
		kind = KindNotFound
	}
	return &Error{
		Kind:    kind,
		Message: detail,
		Status:  status,
	}
}
