package entity

import "time"

// AuthState is the persisted part of a client's auth context.
// IsLoading is transient and never stored.
type AuthState struct {
	ClientID        string    `json:"clientId"`
	User            User      `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	FallbackCookies string    `json:"fallbackCookies"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewAuthState returns the initial state of a client: empty user, not authenticated.
func NewAuthState(clientID string) *AuthState {
	return &AuthState{ClientID: clientID, User: EmptyUser()}
}
