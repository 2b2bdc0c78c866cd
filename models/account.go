package models

// Account is returned once by the account creation endpoint.
//
// Secret is the long-lived credential. The server never shows it again, so the
// client persists it immediately; it also seeds every encryption key.
type Account struct {
	// Secret is the hex-encoded long-lived credential.
	Secret string `json:"secret"`

	// SubjectID identifies the principal the secret belongs to.
	SubjectID string `json:"subjectId"`

	// Warning is a human-readable notice from the server (typically a reminder
	// that the secret cannot be recovered).
	Warning string `json:"warning,omitempty"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Secret string `json:"secret"`
}

// LoginResponse is the decoded body of a successful login.
//
// SubjectID and ExpiresInSeconds are optional on the wire; when they are
// missing the client falls back to the claims of SessionToken.
type LoginResponse struct {
	SessionToken     string `json:"sessionToken"`
	SubjectID        string `json:"subjectId,omitempty"`
	ExpiresInSeconds int64  `json:"expiresInSeconds,omitempty"`
}
