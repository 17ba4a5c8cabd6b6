// Package apperr defines the error kinds shared by stores, services and
// handlers. Handlers map them to HTTP status codes in one place
// (see system/respond); everything else wraps them with fmt.Errorf("%w").
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation: a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: no such meeting, action point, pain point, task or user.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized: the caller does not own the resource.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrForbidden: the caller lacks the required role.
	ErrForbidden = errors.New("access denied")
	// ErrConflict: the change would duplicate existing state.
	ErrConflict = errors.New("conflict")
	// ErrStaleWrite: the document changed between read and write.
	ErrStaleWrite = errors.New("document was modified concurrently")
	// ErrUnauthenticated: missing, malformed or expired credentials.
	ErrUnauthenticated = errors.New("not authenticated")
)

// Invalid returns a validation error carrying a caller-facing message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error naming what was missing, for example
// NotFound("meeting") reads "meeting not found" once passed through Message.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, what)
}

// Conflict returns a conflict error carrying a caller-facing message.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Message strips the kind prefix so handlers can show the detail alone.
// "validation failed: title is required" becomes "title is required".
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict} {
		prefix := kind.Error() + ": "
		if errors.Is(err, kind) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
