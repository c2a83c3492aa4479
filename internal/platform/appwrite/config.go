// Package appwrite provides a minimal REST client for the Appwrite backend
// (identity, document store and avatar services) used by the auth feature.
package appwrite

import "time"

// Config holds configuration for the Appwrite API client.
type Config struct {
	Endpoint  string        // API endpoint including the version prefix (e.g., "https://cloud.appwrite.io/v1")
	ProjectID string        // Project sent with every request
	Timeout   time.Duration // HTTP request timeout
}
