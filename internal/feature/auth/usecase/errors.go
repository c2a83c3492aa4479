// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrAccountNotCreated is returned when the identity service did not create an account.
	ErrAccountNotCreated = errors.New("account not created")

	// ErrEmailAlreadyExists is returned when an account with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotSaved is returned when the user document could not be written.
	ErrUserNotSaved = errors.New("user document not saved")

	// ErrSessionNotCreated is returned when signing in did not yield a session.
	ErrSessionNotCreated = errors.New("session not created")

	// ErrInvalidCredentials is returned when the identity service rejects email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoCurrentAccount is returned when the caller has no signed-in account.
	ErrNoCurrentAccount = errors.New("no current account")

	// ErrUserNotFound is returned when no user document matches the current account.
	ErrUserNotFound = errors.New("user not found")

	// ErrSignOutFailed is returned when the current session could not be deleted.
	ErrSignOutFailed = errors.New("sign out failed")
)
