// Package forms はサインイン・サインアップフォームの送信フローを実装します。
//
// 各フローは検証、バックエンド呼び出し、認証確認の順に進み、最初の失敗で止まります。
// 結果はOutcomeとして返され、トランスポート層がHTTPレスポンスに変換します。
package forms

import (
	"context"
	"fmt"
	"log/slog"

	"snapgram/internal/feature/auth/domain"
	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/feature/auth/usecase"
	"snapgram/internal/feature/auth/validation"
)

// Status is the result kind of a form submission.
type Status string

const (
	StatusSuccess Status = "success"
	StatusInvalid Status = "invalid"
	StatusFailure Status = "failure"
	StatusBusy    Status = "busy"
)

// ユーザーに表示する通知メッセージ
const (
	MsgSignInFailed = "Sign in failed. Please try again."
	MsgSignUpFailed = "Sign up failed. Please try again."
	MsgBusy         = "A submission is already in progress."
)

// RouteHome is where a successful submission navigates.
const RouteHome = "/"

// Outcome is the result of one submission.
// Navigate is set only on success. Err carries the cause for logging and is never shown to users.
type Outcome struct {
	Status      Status
	Navigate    string
	Message     string
	FieldErrors validation.FieldErrors
	Err         error
}

// Session is the part of a client's auth store the forms drive.
type Session interface {
	BeginSubmission() (done func(), ok bool)
	Hooks() *usecase.Hooks
	CheckAuthUser(ctx context.Context) (bool, error)
}

// Signin はサインインフォームを送信します。
func Signin(ctx context.Context, s Session, in validation.SigninInput) Outcome {
	done, ok := s.BeginSubmission()
	if !ok {
		return busy()
	}
	defer done()

	if fe := validation.ValidateSignin(in); !fe.Valid() {
		return invalid(fe)
	}

	return signInAndCheck(ctx, s, entity.SignInInput{Email: in.Email, Password: in.Password})
}

// Signup はサインアップフォームを送信します。
// アカウント作成に失敗した場合、セッションは作成しません。
func Signup(ctx context.Context, s Session, in validation.SignupInput) Outcome {
	done, ok := s.BeginSubmission()
	if !ok {
		return busy()
	}
	defer done()

	if fe := validation.ValidateSignup(in); !fe.Valid() {
		return invalid(fe)
	}

	_, err := s.Hooks().CreateUserAccount.Mutate(ctx, entity.NewUser{
		Name:     in.Name,
		Email:    in.Email,
		Username: in.Username,
		Password: in.Password,
	})
	if err != nil {
		return failure(MsgSignUpFailed, err)
	}

	return signInAndCheck(ctx, s, entity.SignInInput{Email: in.Email, Password: in.Password})
}

func signInAndCheck(ctx context.Context, s Session, in entity.SignInInput) Outcome {
	if _, err := s.Hooks().SignInAccount.Mutate(ctx, in); err != nil {
		return failure(MsgSignInFailed, err)
	}

	authenticated, err := s.CheckAuthUser(ctx)
	if err != nil {
		return failure(MsgSignInFailed, err)
	}
	if !authenticated {
		return failure(MsgSignInFailed, usecase.ErrUserNotFound)
	}

	return Outcome{Status: StatusSuccess, Navigate: RouteHome}
}

func busy() Outcome {
	return Outcome{Status: StatusBusy, Message: MsgBusy, Err: domain.ErrSubmissionInProgress}
}

func invalid(fe validation.FieldErrors) Outcome {
	return Outcome{
		Status:      StatusInvalid,
		FieldErrors: fe,
		Err:         fmt.Errorf("%w: %w", domain.ErrInvalidInput, fe),
	}
}

func failure(msg string, err error) Outcome {
	slog.Debug("form submission failed", "message", msg, "error", err)
	return Outcome{Status: StatusFailure, Message: msg, Err: err}
}
