// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Session describes an authenticated session obtained through login or
// renewal.
type Session struct {
	// Token is the short-lived credential presented on most endpoints.
	Token string `json:"-"`

	// SubjectID is the canonical identifier of the authenticated principal.
	SubjectID string `json:"subjectId"`

	// ExpiresAt is the absolute expiry instant computed at login time as
	// now + declared lifetime.
	ExpiresAt time.Time `json:"expiresAt"`
}

// ValidAt reports whether the session has a token and has not expired at now.
func (s Session) ValidAt(now time.Time) bool {
	return s.Token != "" && !s.ExpiresAt.IsZero() && s.ExpiresAt.After(now)
}

// CredentialState is the full persisted credential record of one client.
//
// Each field is stored under its own key; an empty field means the key is
// absent.
type CredentialState struct {
	Secret       string
	SessionToken string
	SubjectID    string
	ExpiresAt    time.Time
}

// HasSecret reports whether a long-lived secret is present.
func (c CredentialState) HasSecret() bool {
	return c.Secret != ""
}

// Session projects the token part of the state onto a [Session].
func (c CredentialState) Session() Session {
	return Session{Token: c.SessionToken, SubjectID: c.SubjectID, ExpiresAt: c.ExpiresAt}
}

// WithoutSession returns a copy of the state with the token, subject and
// expiry cleared. The secret is preserved.
func (c CredentialState) WithoutSession() CredentialState {
	return CredentialState{Secret: c.Secret}
}
