package appwrite

import (
	"strings"

	"github.com/google/uuid"
)

// UniqueID returns a fresh identifier accepted by the API for accounts and
// documents (at most 36 characters of [a-zA-Z0-9]).
func UniqueID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
