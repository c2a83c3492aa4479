package entity

import (
	"strings"
	"sync"
)

// EmptyFallbackMarker is the value the backend sends back once no session cookie is left.
const EmptyFallbackMarker = "[]"

// Credentials holds the fallback cookies exchanged with the backend on behalf
// of one client. The raw value is the marker the web SDK keeps in
// localStorage under "cookieFallback".
type Credentials struct {
	mu     sync.RWMutex
	marker string
}

// NewCredentials wraps a previously stored marker.
func NewCredentials(marker string) *Credentials {
	return &Credentials{marker: marker}
}

// FallbackCookies returns the marker to replay on the next backend call.
func (c *Credentials) FallbackCookies() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.marker
}

// SetFallbackCookies stores the marker the backend answered with.
func (c *Credentials) SetFallbackCookies(marker string) {
	c.mu.Lock()
	c.marker = marker
	c.mu.Unlock()
}

// Clear forgets every cookie.
func (c *Credentials) Clear() {
	c.SetFallbackCookies(EmptyFallbackMarker)
}

// IsEmpty reports whether no prior session can exist: the marker is absent,
// blank or the literal empty array.
func (c *Credentials) IsEmpty() bool {
	m := strings.TrimSpace(c.FallbackCookies())
	return m == "" || m == EmptyFallbackMarker || m == "{}"
}
