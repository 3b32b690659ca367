package errors

import "errors"

// Common application errors shared across layers.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for authentication failures (missing or
	// malformed student cookie, invalid staff token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks rights for an action,
	// including a failed student view gate.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is returned when a token (student cookie, invite) has expired.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict is returned for state conflicts, e.g. a duplicate quiz
	// submission or deleting a category that still has stories.
	ErrConflict = errors.New("resource state conflict")
)
