package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextClientID is the gin context key holding the client ID.
const ContextClientID = "clientID"

// DefaultCookieName is the cookie carrying the client token.
const DefaultCookieName = "snapgram_client"

// CookieOptions configures the client cookie.
type CookieOptions struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// ClientIdentity returns a Gin middleware that identifies the browser.
// The token is read from the client cookie, then from an Authorization
// bearer header. A missing or invalid token gets a fresh client ID and cookie.
func ClientIdentity(gen Generator, opts CookieOptions) gin.HandlerFunc {
	if opts.Name == "" {
		opts.Name = DefaultCookieName
	}
	return func(c *gin.Context) {
		if tokenStr := tokenFromRequest(c, opts.Name); tokenStr != "" {
			if id, err := gen.ParseToken(tokenStr); err == nil {
				c.Set(ContextClientID, id)
				c.Next()
				return
			}
		}

		id := uuid.NewString()
		tokenStr, err := gen.GenerateToken(id)
		if err != nil {
			slog.Error("failed to issue client token", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.Name, tokenStr, opts.MaxAge, "/", "", opts.Secure, true)
		c.Set(ContextClientID, id)
		c.Next()
	}
}

// ClientID returns the client ID set by ClientIdentity, or "".
func ClientID(c *gin.Context) string {
	return c.GetString(ContextClientID)
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
