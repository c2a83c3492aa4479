// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"snapgram/internal/api"
	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/feature/auth/forms"
	"snapgram/internal/feature/auth/usecase"
	"snapgram/internal/feature/auth/validation"
	jwtmw "snapgram/internal/platform/jwt"
)

// ClientStore はクライアント1つ分の認証状態です。
// Goの慣例に従い、インターフェースはプロバイダー（authctx）ではなくコンシューマー（handler）が定義します。
type ClientStore interface {
	forms.Session
	Snapshot() authctx.Snapshot
	Mount(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
}

// StoreFunc はクライアントIDに対応するClientStoreを返します。
type StoreFunc func(ctx context.Context, clientID string) (ClientStore, error)

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	stores StoreFunc
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(stores StoreFunc) *AuthHandler {
	return &AuthHandler{stores: stores}
}

// SignIn はサインインAPIエンドポイントを処理します。
// - 成功時は200とリダイレクト先を返却
// - 入力エラー時は400とフィールドごとのメッセージを返却
// - 認証失敗時は401を返却（実際のエラーは公開しない）
// - 送信中の場合は409を返却
func (h *AuthHandler) SignIn(c *gin.Context) {
	st, ok := h.store(c)
	if !ok {
		return
	}
	var req api.SignInJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signin request malformed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	out := forms.Signin(c.Request.Context(), st, validation.SigninInput{Email: req.Email, Password: req.Password})
	respond(c, "signin", out)
}

// SignUp はサインアップAPIエンドポイントを処理します。
// レスポンスはSignInと同じ規則に従います。
func (h *AuthHandler) SignUp(c *gin.Context) {
	st, ok := h.store(c)
	if !ok {
		return
	}
	var req api.SignUpJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup request malformed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	out := forms.Signup(c.Request.Context(), st, validation.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	respond(c, "signup", out)
}

// SignOut は現在のセッションを削除し、サインインページへのリダイレクト先を返します。
func (h *AuthHandler) SignOut(c *gin.Context) {
	st, ok := h.store(c)
	if !ok {
		return
	}
	done, ok := st.BeginSubmission()
	if !ok {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: forms.MsgBusy})
		return
	}
	defer done()

	if err := st.SignOut(c.Request.Context()); err != nil {
		slog.Warn("signout failed", "error", err, "client_id", jwtmw.ClientID(c))
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "sign out failed"})
		return
	}
	c.JSON(http.StatusOK, api.RedirectResponse{Redirect: authctx.RouteSignIn})
}

// Me は認証状態を確認し、現在のユーザーを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	st, ok := h.store(c)
	if !ok {
		return
	}
	authenticated, err := st.CheckAuthUser(c.Request.Context())
	if err != nil {
		slog.Error("auth check failed", "error", err, "client_id", jwtmw.ClientID(c))
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "auth check failed"})
		return
	}
	res := api.MeResponse{IsAuthenticated: authenticated}
	if authenticated {
		res.User = toAPIUser(st.Snapshot().User)
	}
	c.JSON(http.StatusOK, res)
}

// store resolves the caller's store, answering 500 when it cannot.
func (h *AuthHandler) store(c *gin.Context) (ClientStore, bool) {
	return resolveStore(c, h.stores)
}

func resolveStore(c *gin.Context, stores StoreFunc) (ClientStore, bool) {
	clientID := jwtmw.ClientID(c)
	st, err := stores(c.Request.Context(), clientID)
	if err != nil {
		slog.Error("failed to load auth state", "error", err, "client_id", clientID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return nil, false
	}
	return st, true
}

func respond(c *gin.Context, op string, out forms.Outcome) {
	switch out.Status {
	case forms.StatusSuccess:
		slog.Info(op+" successful", "client_id", jwtmw.ClientID(c), "remote_addr", c.ClientIP())
		c.JSON(http.StatusOK, api.RedirectResponse{Redirect: out.Navigate})
	case forms.StatusInvalid:
		fields := map[string]string(out.FieldErrors)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid input", Fields: &fields})
	case forms.StatusBusy:
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: out.Message})
	default:
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		level := slog.LevelWarn
		if !isUserError(out.Err) {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, op+" failed", "error", out.Err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: out.Message})
	}
}

// isUserError reports failures caused by what the user typed rather than by the backend.
func isUserError(err error) bool {
	return errors.Is(err, usecase.ErrInvalidCredentials) || errors.Is(err, usecase.ErrEmailAlreadyExists)
}

func toAPIUser(u entity.User) *api.User {
	res := &api.User{
		Id:        u.ID,
		AccountId: u.AccountID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     openapi_types.Email(u.Email),
		ImageUrl:  u.ImageURL,
	}
	if u.Bio != "" {
		bio := u.Bio
		res.Bio = &bio
	}
	return res
}
