package service

import (
	"context"

	"github.com/MKhiriev/go-chain-vault/models"
)

// CredentialManager owns the authentication lifecycle of one client: the
// long-lived secret, the short-lived session and the renewal timer that keeps
// the session fresh. It is the only writer of the credential state; every
// other component reads through it.
type CredentialManager interface {
	// SetSecret stores the secret issued at account creation and persists it
	// immediately. Setting a different secret drops the current session.
	SetSecret(ctx context.Context, secret string) error

	// Login exchanges secret for a session, persists it and arms renewal.
	// On failure the previous state is left untouched.
	Login(ctx context.Context, secret string) (models.Session, error)

	// Logout clears every credential, cancels renewal and wipes storage.
	// Calling it on an anonymous client is not an error.
	Logout(ctx context.Context) error

	// Restore loads persisted state. An expired token is purged (the secret
	// is kept) before anything becomes visible to callers.
	Restore(ctx context.Context) error

	// AuthorizationFor returns the credential the routing table assigns to
	// endpoint. ok is false when that credential is absent or expired.
	AuthorizationFor(endpoint models.Endpoint) (credential string, ok bool)

	// IsAuthenticated reports whether a token exists and has not expired.
	// It is evaluated against the clock on every call.
	IsAuthenticated() bool

	// State returns the current lifecycle state.
	State() AuthState

	// Secret returns the stored secret or "".
	Secret() string

	// Session returns the current session when it is valid.
	Session() (models.Session, bool)

	// OnRenewalFailure registers fn to receive renewal failures. Each failure
	// is an *apierrors.AuthenticationError wrapping
	// apierrors.ErrSessionRenewalFailed.
	OnRenewalFailure(fn func(error))

	// OnSessionChange registers fn to be called after every successful login
	// or renewal.
	OnSessionChange(fn func(models.Session))

	// Close cancels the pending renewal. Credentials stay in memory and in
	// storage.
	Close()
}

// AccountService provisions new accounts.
type AccountService interface {
	// CreateAccount asks the service for a new account and hands the issued
	// secret to the credential manager.
	CreateAccount(ctx context.Context) (models.Account, error)
}

// DataService submits and retrieves encrypted collections. Plaintext never
// leaves the process: it is sealed before submission and opened after
// retrieval.
type DataService interface {
	// Submit validates, encrypts with the secret and stores plaintext under
	// label.
	Submit(ctx context.Context, label, plaintext string) (models.SubmitResponse, error)

	// List returns the stored collection summaries.
	List(ctx context.Context) ([]models.CollectionSummary, error)

	// Decrypt fetches the collection and opens it locally.
	Decrypt(ctx context.Context, collectionID string) (models.DecryptedCollection, error)
}
