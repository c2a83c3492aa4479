// Package dto defines data transfer objects for the Appwrite API payloads.
package dto

// AccountResponse is the account model returned by the /account endpoints.
type AccountResponse struct {
	ID     string `json:"$id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status bool   `json:"status"`
}

// SessionResponse is the session model returned by /account/sessions.
type SessionResponse struct {
	ID       string `json:"$id"`
	UserID   string `json:"userId"`
	Expire   string `json:"expire"`
	Provider string `json:"provider"`
	Current  bool   `json:"current"`
}

// DocumentList is the payload of listDocuments. Documents are kept raw so the
// caller decodes them into its own model.
type DocumentList struct {
	Total     int              `json:"total"`
	Documents []map[string]any `json:"documents"`
}

// CreateAccountRequest is the body of POST /account.
type CreateAccountRequest struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// EmailSessionRequest is the body of POST /account/sessions/email.
type EmailSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateDocumentRequest is the body of POST .../documents.
type CreateDocumentRequest struct {
	DocumentID string `json:"documentId"`
	Data       any    `json:"data"`
}
