// Package apperr defines the failure taxonomy shared by all stores.
// Handlers map these to HTTP statuses with errors.Is.
package apperr

import "errors"

var (
	// ErrValidation marks missing or malformed input. Caller's fault, never retried.
	ErrValidation = errors.New("invalid data")

	// ErrPermissionDenied marks an authorization guard failure.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound marks an absent studio, schedule, discussion, post or invitation.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation detected at insert time.
	ErrConflict = errors.New("conflict")
)
