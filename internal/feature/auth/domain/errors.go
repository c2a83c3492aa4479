// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Field-independent failures surfaced to the user as a single notification.
var (
	// ErrInvalidInput indicates that a form submission failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSubmissionInProgress indicates that the client already has a submission
	// or an auth check running.
	ErrSubmissionInProgress = errors.New("submission in progress")
)
