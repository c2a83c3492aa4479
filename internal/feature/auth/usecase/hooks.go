package usecase

import (
	"context"

	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/shared/mutation"
)

// Hooks are the per-client mutations the forms drive. Each one wraps a single
// AuthUsecase call bound to the client's credentials.
type Hooks struct {
	CreateUserAccount *mutation.Mutation[entity.NewUser, *entity.User]
	SignInAccount     *mutation.Mutation[entity.SignInInput, *entity.Session]
	SignOutAccount    *mutation.Mutation[struct{}, struct{}]
}

// NewHooks binds the usecase to one client's credentials.
func (u *AuthUsecase) NewHooks(creds *entity.Credentials) *Hooks {
	return &Hooks{
		CreateUserAccount: mutation.New(func(ctx context.Context, in entity.NewUser) (*entity.User, error) {
			return u.CreateUserAccount(ctx, creds, in)
		}),
		SignInAccount: mutation.New(func(ctx context.Context, in entity.SignInInput) (*entity.Session, error) {
			return u.SignInAccount(ctx, creds, in)
		}),
		SignOutAccount: mutation.New(func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, u.SignOutAccount(ctx, creds)
		}),
	}
}

// AnyPending reports whether any mutation is running.
func (h *Hooks) AnyPending() bool {
	return h.CreateUserAccount.IsPending() || h.SignInAccount.IsPending() || h.SignOutAccount.IsPending()
}
