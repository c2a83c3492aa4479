package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/feature/auth/forms"
	"snapgram/internal/feature/auth/transport/http/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// ページテンプレート名
const (
	PageSignIn = "sign-in.html"
	PageSignUp = "sign-up.html"
	PageHome   = "home.html"
)

// AssetsPath is where Assets is mounted.
const AssetsPath = "/assets"

// DefaultSideImage is the decorative image shown next to the auth forms.
// It is served from Assets.
const DefaultSideImage = AssetsPath + "/images/side-img.svg"

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Assets returns the embedded static files (images) used by the pages.
func Assets() http.FileSystem {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// LayoutHandler はページ表示の前に認証状態を確認するゲートです。
type LayoutHandler struct {
	stores    StoreFunc
	sideImage string
}

// NewLayoutHandler はLayoutHandlerの新しいインスタンスを生成します。
// sideImageが空の場合、DefaultSideImageを使用します。
func NewLayoutHandler(stores StoreFunc, sideImage string) *LayoutHandler {
	if sideImage == "" {
		sideImage = DefaultSideImage
	}
	return &LayoutHandler{stores: stores, sideImage: sideImage}
}

// AuthLayout はサインイン・サインアップページのゲートです。
// 認証済みのクライアントはホームへリダイレクトし、それ以外はフォームページを表示します。
// 判定には保存済みの値ではなく、その時点の認証フラグを使います。
func (h *LayoutHandler) AuthLayout(page string) gin.HandlerFunc {
	view := dto.AuthPage{SideImage: h.sideImage}
	switch page {
	case PageSignUp:
		view.Title = "Create a new account"
		view.Action = "/api/sign-up"
		view.SignUp = true
	default:
		view.Title = "Log in to your account"
		view.Action = "/api/sign-in"
	}

	return func(c *gin.Context) {
		st, ok := resolveStore(c, h.stores)
		if !ok {
			return
		}
		if st.Snapshot().IsAuthenticated {
			c.Redirect(http.StatusFound, forms.RouteHome)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.HTML(http.StatusOK, page, view)
	}
}

// RootLayout はホームページのゲートです。
// 起動時チェック（Mount）でセッションがないと分かればサインインページへリダイレクトします。
func (h *LayoutHandler) RootLayout(c *gin.Context) {
	st, ok := resolveStore(c, h.stores)
	if !ok {
		return
	}
	redirect, err := st.Mount(c.Request.Context())
	if err != nil {
		// 状態はリセット済みなので未認証として扱う
		slog.Warn("auth check on mount failed", "error", err, "remote_addr", c.ClientIP())
	}
	snap := st.Snapshot()
	if redirect != "" || !snap.IsAuthenticated {
		c.Redirect(http.StatusFound, authctx.RouteSignIn)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, PageHome, dto.HomePage{
		Name:     snap.User.Name,
		Username: snap.User.Username,
		ImageURL: snap.User.ImageURL,
	})
}
