package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "snapgram/internal/feature/auth/transport/handler"
	healthhandler "snapgram/internal/platform/http/handler"
)

// Handlers groups the handlers the router mounts.
type Handlers struct {
	Auth   *authhandler.AuthHandler
	Layout *authhandler.LayoutHandler
	Health gin.HandlerFunc
	// RateLimit guards the form submission endpoints. nil disables it.
	RateLimit gin.HandlerFunc
}

// Options holds the engine level settings.
type Options struct {
	CORSOrigins []string
	// TrustedProxies lists the proxy IPs/CIDRs whose X-Forwarded-For is honored.
	// Empty means the peer address is always the client IP.
	TrustedProxies []string
}

// NewRouter はルーティングを設定したgin.Engineを返します。
// clientIdentityはページとAPIのすべてのルートに適用されます。
func NewRouter(h Handlers, clientIdentity gin.HandlerFunc, opts Options) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(authhandler.Templates())

	// レート制限はClientIPで数えるため、信頼しないピアの転送ヘッダは無視する
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		slog.Error("invalid trusted proxies; trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// ブラウザ以外のオリジンから使う場合のみCORSを有効にする
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 導通確認用
	health := h.Health
	if health == nil {
		health = healthhandler.Health()
	}
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	r.StaticFS(authhandler.AssetsPath, authhandler.Assets())

	// クライアント識別が必要なルート
	client := r.Group("/")
	client.Use(clientIdentity)
	{
		// 認証レイアウト（サインイン済みならホームへ）
		client.GET("/sign-in", h.Layout.AuthLayout(authhandler.PageSignIn))
		client.GET("/sign-up", h.Layout.AuthLayout(authhandler.PageSignUp))
		// ホーム（未認証ならサインインへ）
		client.GET("/", h.Layout.RootLayout)

		api := client.Group("/api")
		api.POST("/sign-in", limited(h.RateLimit, h.Auth.SignIn)...)
		api.POST("/sign-up", limited(h.RateLimit, h.Auth.SignUp)...)
		api.POST("/sign-out", h.Auth.SignOut)
		api.GET("/me", h.Auth.Me)
	}

	return r
}

func limited(limit, h gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{limit, h}
}
