package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	headerProject         = "X-Appwrite-Project"
	headerResponseFormat  = "X-Appwrite-Response-Format"
	headerFallbackCookies = "X-Fallback-Cookies"

	// responseFormat pins the payload shape this client decodes.
	responseFormat = "1.4.0"
)

// CookieStore keeps the fallback cookies of one caller between requests.
// The server answers with X-Fallback-Cookies whenever the session cookie
// changes; the client replays the stored value on the next call.
type CookieStore interface {
	FallbackCookies() string
	SetFallbackCookies(marker string)
}

// Client talks to the Appwrite REST API.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Client{cfg: cfg, client: client}
}

// Endpoint returns the configured API endpoint without a trailing slash.
func (c *Client) Endpoint() string {
	return c.cfg.Endpoint
}

// ProjectID returns the configured project.
func (c *Client) ProjectID() string {
	return c.cfg.ProjectID
}

// call executes one API request. body is JSON encoded when non-nil and the
// response is decoded into out when out is non-nil. cookies may be nil for
// calls that do not need a session.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any, cookies CookieStore, out any) error {
	u := c.cfg.Endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("appwrite: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set(headerProject, c.cfg.ProjectID)
	req.Header.Set(headerResponseFormat, responseFormat)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookies != nil {
		if marker := cookies.FallbackCookies(); marker != "" {
			req.Header.Set(headerFallbackCookies, marker)
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	// セッションCookieが更新された場合はフォールバック値を保存する
	if cookies != nil {
		if marker := res.Header.Get(headerFallbackCookies); marker != "" {
			cookies.SetFallbackCookies(marker)
		}
	}

	if res.StatusCode >= 400 {
		apiErr := &Error{Code: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		apiErr.Code = res.StatusCode
		return apiErr
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("appwrite: decode response: %w", err)
	}
	return nil
}
