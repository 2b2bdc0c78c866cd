package store

import (
	"context"

	"github.com/MKhiriev/go-chain-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_store_mock.go -package=mock

// CredentialStore persists the client credential state across process
// restarts. Every method is atomic: a caller never observes a half-written
// session.
type CredentialStore interface {
	// Load returns whatever was persisted. Missing keys yield zero fields.
	Load(ctx context.Context) (models.CredentialState, error)
	// SaveSecret replaces the stored account secret.
	SaveSecret(ctx context.Context, secret string) error
	// SaveSession replaces the token, subject and expiry together.
	SaveSession(ctx context.Context, session models.Session) error
	// SaveCredentials replaces the secret and the whole session in one
	// transaction, so a failed write never pairs one account's secret with
	// another account's session.
	SaveCredentials(ctx context.Context, secret string, session models.Session) error
	// ClearSession removes the token, subject and expiry, keeping the secret.
	ClearSession(ctx context.Context) error
	// Clear removes every persisted credential.
	Clear(ctx context.Context) error
}
