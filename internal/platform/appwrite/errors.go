package appwrite

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the error body returned by the Appwrite API.
type Error struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("appwrite %d %s: %s", e.Code, e.Type, e.Message)
	}
	return fmt.Sprintf("appwrite %d: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API, which is what a
// guest (no session) gets back from the account endpoints.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsConflict reports whether err is a 409 from the API (duplicate id or email).
func IsConflict(err error) bool {
	return hasCode(err, http.StatusConflict)
}

func hasCode(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
