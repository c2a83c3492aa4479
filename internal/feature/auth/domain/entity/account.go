package entity

import "time"

// Account is the identity service account behind a user.
type Account struct {
	ID     string
	Name   string
	Email  string
	Status bool
}

// Session is the backend's proof of a successful sign-in. The application
// only looks at it to confirm the sign-in succeeded.
type Session struct {
	ID       string
	UserID   string
	Provider string
	Expire   time.Time
	Current  bool
}
