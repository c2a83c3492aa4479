// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"snapgram/internal/feature/auth/domain/entity"
)

// IdentityService はバックエンドのアカウント/セッションAPIを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type IdentityService interface {
	// Create は新しいアカウントを作成します。
	// 同じメールアドレスが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, creds *entity.Credentials, id, email, password, name string) (*entity.Account, error)

	// CreateEmailSession はメールアドレスとパスワードでセッションを作成します。
	// 認証情報が不正な場合、ErrInvalidCredentialsを返します。
	CreateEmailSession(ctx context.Context, creds *entity.Credentials, email, password string) (*entity.Session, error)

	// Get は現在のセッションのアカウントを返します。
	// セッションがない場合、ErrNoCurrentAccountを返します。
	Get(ctx context.Context, creds *entity.Credentials) (*entity.Account, error)

	// DeleteSession は指定したセッションを削除します。
	DeleteSession(ctx context.Context, creds *entity.Credentials, sessionID string) error
}

// UserDocumentStore はユーザードキュメントの永続化層を抽象化します。
type UserDocumentStore interface {
	// Create はユーザードキュメントを書き込み、保存されたレコードを返します。
	Create(ctx context.Context, creds *entity.Credentials, id string, user *entity.User) (*entity.User, error)

	// ListByAccountID はaccountIdが一致するユーザードキュメントを返します。
	ListByAccountID(ctx context.Context, creds *entity.Credentials, accountID string) ([]entity.User, error)
}

// AvatarGenerator は名前のイニシャルからアバター画像のURLを生成します。
type AvatarGenerator interface {
	InitialsURL(name string) string
}

// currentSessionID はバックエンドが呼び出し元のセッションとして解決するIDです。
const currentSessionID = "current"

// AuthUsecase はバックエンドクライアントの薄いラッパーです。
// すべての失敗は名前付きエラーとして呼び出し元に返します。
type AuthUsecase struct {
	identity IdentityService
	users    UserDocumentStore
	avatars  AvatarGenerator
	newID    func() string
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
// newIDはアカウントIDとドキュメントIDの生成に使われます。
func NewAuthUsecase(identity IdentityService, users UserDocumentStore, avatars AvatarGenerator, newID func() string) *AuthUsecase {
	return &AuthUsecase{
		identity: identity,
		users:    users,
		avatars:  avatars,
		newID:    newID,
	}
}

// CreateUserAccount はアカウントを作成し、イニシャルアバター付きのユーザードキュメントを保存します。
func (u *AuthUsecase) CreateUserAccount(ctx context.Context, creds *entity.Credentials, in entity.NewUser) (*entity.User, error) {
	account, err := u.identity.Create(ctx, creds, u.newID(), in.Email, in.Password, in.Name)
	if err != nil {
		slog.Warn("account creation failed", "error", err, "email", in.Email)
		return nil, fmt.Errorf("%w: %w", ErrAccountNotCreated, err)
	}
	if account == nil {
		slog.Warn("account creation returned no account", "email", in.Email)
		return nil, ErrAccountNotCreated
	}

	user := &entity.User{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Username:  in.Username,
		ImageURL:  u.avatars.InitialsURL(in.Name),
	}

	saved, err := u.users.Create(ctx, creds, u.newID(), user)
	if err != nil {
		slog.Error("saving user document failed", "error", err, "account_id", account.ID)
		return nil, fmt.Errorf("%w: %w", ErrUserNotSaved, err)
	}
	if saved == nil {
		slog.Error("saving user document returned no record", "account_id", account.ID)
		return nil, ErrUserNotSaved
	}
	return saved, nil
}

// SignInAccount はメールセッションを作成します。
func (u *AuthUsecase) SignInAccount(ctx context.Context, creds *entity.Credentials, in entity.SignInInput) (*entity.Session, error) {
	session, err := u.identity.CreateEmailSession(ctx, creds, in.Email, in.Password)
	if err != nil {
		slog.Warn("session creation failed", "error", err, "email", in.Email)
		return nil, fmt.Errorf("%w: %w", ErrSessionNotCreated, err)
	}
	if session == nil {
		slog.Warn("session creation returned no session", "email", in.Email)
		return nil, ErrSessionNotCreated
	}
	return session, nil
}

// GetCurrentUser は現在のアカウントに対応するユーザードキュメントを返します。
// アカウントがない場合はErrNoCurrentAccount、ドキュメントがない場合はErrUserNotFoundを返します。
func (u *AuthUsecase) GetCurrentUser(ctx context.Context, creds *entity.Credentials) (*entity.User, error) {
	account, err := u.identity.Get(ctx, creds)
	if err != nil {
		if errors.Is(err, ErrNoCurrentAccount) {
			return nil, ErrNoCurrentAccount
		}
		slog.Error("fetching current account failed", "error", err)
		return nil, fmt.Errorf("get current account: %w", err)
	}
	if account == nil {
		return nil, ErrNoCurrentAccount
	}

	users, err := u.users.ListByAccountID(ctx, creds, account.ID)
	if err != nil {
		slog.Error("listing user documents failed", "error", err, "account_id", account.ID)
		return nil, fmt.Errorf("list user documents: %w", err)
	}
	if len(users) == 0 {
		slog.Warn("no user document for account", "account_id", account.ID)
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

// SignOutAccount は現在のセッションを削除し、保持しているCookieを破棄します。
func (u *AuthUsecase) SignOutAccount(ctx context.Context, creds *entity.Credentials) error {
	if err := u.identity.DeleteSession(ctx, creds, currentSessionID); err != nil {
		slog.Warn("session deletion failed", "error", err)
		return fmt.Errorf("%w: %w", ErrSignOutFailed, err)
	}
	creds.Clear()
	return nil
}

// IsAbsence reports whether err only means "nobody is signed in" rather than
// a failure talking to the backend.
func IsAbsence(err error) bool {
	return errors.Is(err, ErrNoCurrentAccount) || errors.Is(err, ErrUserNotFound)
}
