// Package errdefs holds the sentinel errors shared by the service layer and
// the HTTP controllers. Services wrap these with context via fmt.Errorf and
// %w; controllers map them back to status codes with errors.Is.
package errdefs

import "errors"

var (
	// ErrNotFound covers unknown access tokens, soft-deleted forms and any
	// admin-managed entity that cannot be resolved.
	ErrNotFound = errors.New("not found")

	// ErrForbidden covers forms that are not open for submission, closed
	// submission windows and failed role checks.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadySubmitted is returned when an access grant has been consumed.
	// At most one submission per token is ever accepted.
	ErrAlreadySubmitted = errors.New("feedback already submitted")

	// ErrValidation covers rejected input: malformed bodies, lifecycle
	// transitions that are not allowed, and unknown question references in
	// strict submission mode.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned for missing or unverifiable credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal flags data-integrity violations and storage failures. The
	// client only ever sees a generic message; detail stays in the server log.
	ErrInternal = errors.New("internal error")
)
