package appwrite

import (
	"context"
	"net/http"
	"net/url"

	"snapgram/internal/platform/appwrite/dto"
)

// CurrentSession is the session id alias the API resolves to the caller's session.
const CurrentSession = "current"

// CreateAccount registers a new identity account.
func (c *Client) CreateAccount(ctx context.Context, cookies CookieStore, userID, email, password, name string) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	body := dto.CreateAccountRequest{UserID: userID, Email: email, Password: password, Name: name}
	if err := c.call(ctx, http.MethodPost, "/account", nil, body, cookies, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEmailSession signs in with email and password. On success the
// session cookie is stored in cookies.
func (c *Client) CreateEmailSession(ctx context.Context, cookies CookieStore, email, password string) (*dto.SessionResponse, error) {
	var out dto.SessionResponse
	body := dto.EmailSessionRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/account/sessions/email", nil, body, cookies, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccount returns the account of the session held in cookies.
func (c *Client) GetAccount(ctx context.Context, cookies CookieStore) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	if err := c.call(ctx, http.MethodGet, "/account", nil, nil, cookies, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession deletes a session; pass CurrentSession to sign out.
func (c *Client) DeleteSession(ctx context.Context, cookies CookieStore, sessionID string) error {
	return c.call(ctx, http.MethodDelete, "/account/sessions/"+url.PathEscape(sessionID), nil, nil, cookies, nil)
}
