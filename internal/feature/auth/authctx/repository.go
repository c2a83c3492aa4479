// Package authctx holds the per-client authentication state: the current
// user, the loading flag and the authenticated flag. A Store is the single
// writer of its client's state; everything else reads snapshots.
package authctx

import (
	"context"
	"errors"
	"time"

	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/feature/auth/usecase"
)

// ErrStateNotFound is returned by a StateRepository when nothing is stored for a client.
var ErrStateNotFound = errors.New("auth state not found")

// StateRepository persists auth state between requests and restarts.
// Following Go convention: interfaces are defined by the consumer (authctx), not the provider (adapters).
type StateRepository interface {
	// Load returns the stored state or ErrStateNotFound.
	Load(ctx context.Context, clientID string) (*entity.AuthState, error)

	// Save writes the state, replacing any previous value.
	Save(ctx context.Context, state *entity.AuthState) error

	// Delete removes the stored state. Deleting a missing state is not an error.
	Delete(ctx context.Context, clientID string) error
}

// StalePruner is implemented by repositories without native expiry.
type StalePruner interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// Backend is the part of the auth usecase the provider depends on.
type Backend interface {
	GetCurrentUser(ctx context.Context, creds *entity.Credentials) (*entity.User, error)
	NewHooks(creds *entity.Credentials) *usecase.Hooks
}
