// Package adapters はauthフィーチャーのポート実装を提供します。
package adapters

import (
	"context"
	"time"

	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/feature/auth/usecase"
	"snapgram/internal/platform/appwrite"
	"snapgram/internal/platform/appwrite/dto"
)

// identityAppwrite はIdentityServiceインターフェースのAppwrite実装です。
type identityAppwrite struct {
	client *appwrite.Client
}

// identityAppwriteがIdentityServiceを実装していることをコンパイル時に検証します。
var _ usecase.IdentityService = (*identityAppwrite)(nil)

// appwrite.ClientはそのままAvatarGeneratorとして使えます。
var _ usecase.AvatarGenerator = (*appwrite.Client)(nil)

// NewIdentityAppwrite はidentityAppwriteの新しいインスタンスを生成します。
func NewIdentityAppwrite(client *appwrite.Client) *identityAppwrite {
	return &identityAppwrite{client: client}
}

// Create はアカウントを作成します。
// 同じメールアドレスのアカウントが既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *identityAppwrite) Create(ctx context.Context, creds *entity.Credentials, id, email, password, name string) (*entity.Account, error) {
	res, err := r.client.CreateAccount(ctx, cookies(creds), id, email, password, name)
	if err != nil {
		if appwrite.IsConflict(err) {
			return nil, usecase.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return toAccount(res), nil
}

// CreateEmailSession はメールセッションを作成します。
// 認証に失敗した場合、usecase.ErrInvalidCredentialsを返します。
func (r *identityAppwrite) CreateEmailSession(ctx context.Context, creds *entity.Credentials, email, password string) (*entity.Session, error) {
	res, err := r.client.CreateEmailSession(ctx, cookies(creds), email, password)
	if err != nil {
		if appwrite.IsUnauthorized(err) {
			return nil, usecase.ErrInvalidCredentials
		}
		return nil, err
	}
	s := &entity.Session{
		ID:       res.ID,
		UserID:   res.UserID,
		Provider: res.Provider,
		Current:  res.Current,
	}
	if t, err := time.Parse(time.RFC3339, res.Expire); err == nil {
		s.Expire = t
	}
	return s, nil
}

// Get は現在のアカウントを取得します。
// ゲスト（セッションなし）の場合、usecase.ErrNoCurrentAccountを返します。
func (r *identityAppwrite) Get(ctx context.Context, creds *entity.Credentials) (*entity.Account, error) {
	res, err := r.client.GetAccount(ctx, cookies(creds))
	if err != nil {
		if appwrite.IsUnauthorized(err) {
			return nil, usecase.ErrNoCurrentAccount
		}
		return nil, err
	}
	return toAccount(res), nil
}

// DeleteSession はセッションを削除します。
func (r *identityAppwrite) DeleteSession(ctx context.Context, creds *entity.Credentials, sessionID string) error {
	return r.client.DeleteSession(ctx, cookies(creds), sessionID)
}

func toAccount(res *dto.AccountResponse) *entity.Account {
	if res == nil || res.ID == "" {
		return nil
	}
	return &entity.Account{ID: res.ID, Name: res.Name, Email: res.Email, Status: res.Status}
}

// cookies avoids handing a typed nil to the client as a non-nil interface.
func cookies(creds *entity.Credentials) appwrite.CookieStore {
	if creds == nil {
		return nil
	}
	return creds
}
