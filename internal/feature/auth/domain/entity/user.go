// Package entity defines the domain entities for the auth feature.
package entity

// User is the profile record stored in the backend's user collection.
// It is created once the identity account exists and is only refreshed by
// re-reading it from the document store.
type User struct {
	// ID is the document identifier of the user record.
	ID string `json:"id"`

	// AccountID links the record to the identity service account.
	AccountID string `json:"accountId"`

	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// ImageURL points at the avatar image (initials avatar on signup).
	ImageURL string `json:"imageUrl"`

	Bio string `json:"bio"`
}

// EmptyUser returns the placeholder user held while nobody is signed in.
func EmptyUser() User {
	return User{}
}

// IsEmpty reports whether u is the empty placeholder.
func (u User) IsEmpty() bool {
	return u == User{}
}

// NewUser is the transient signup input. It only lives for the duration of
// one signup submission.
type NewUser struct {
	Name     string
	Email    string
	Username string
	Password string
}

// SignInInput carries the credentials of a sign-in attempt.
type SignInInput struct {
	Email    string
	Password string
}
