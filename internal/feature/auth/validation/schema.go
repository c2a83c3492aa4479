// Package validation はサインアップ/サインインフォームの入力スキーマを定義します。
// 検証は純粋関数で、同じ入力には常に同じ結果を返します。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MinNameLength は表示名の最低文字数です。
	MinNameLength = 5
	// MinUsernameLength はユーザー名の最低文字数です。
	MinUsernameLength = 5
	// MinPasswordLength はパスワードの最低文字数です。
	MinPasswordLength = 8
)

// SignupInput はサインアップフォームの入力です。
type SignupInput struct {
	Name     string `json:"name" validate:"min=5"`
	Username string `json:"username" validate:"min=5"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

// SigninInput はサインインフォームの入力です。
type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

// FieldErrors はフィールド名（JSON名）からエラーメッセージへのマップです。
// 空の場合は入力が有効であることを意味します。
type FieldErrors map[string]string

// Valid は検証エラーがない場合にtrueを返します。
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Error はフィールド名順に並べたメッセージを連結します。
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fe[f])
	}
	return strings.Join(msgs, "; ")
}

// validate はパッケージ全体で共有するバリデーターです（validator.Validateはスレッドセーフ）。
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// エラーのフィールド名をJSONタグ名にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateSignup はサインアップ入力を検証します。
func ValidateSignup(in SignupInput) FieldErrors {
	return check(in)
}

// ValidateSignin はサインイン入力を検証します。
func ValidateSignin(in SigninInput) FieldErrors {
	return check(in)
}

func check(in any) FieldErrors {
	out := FieldErrors{}
	err := validate.Struct(in)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// 構造体以外が渡された場合のみ到達する
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

// message はタグごとのユーザー向けメッセージを組み立てます。
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s should be at least %s characters", fe.Field(), fe.Param())
	case "required", "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
