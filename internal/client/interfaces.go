// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-chain-vault/vault"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command in args and returns when it is done.
	Run(ctx context.Context, args []string) error
}

// Auth is the part of the SDK Auth namespace the CLI uses.
type Auth interface {
	CreateAccount(ctx context.Context) (vault.Account, error)
	Login(ctx context.Context) (vault.Session, error)
	LoginWithSecret(ctx context.Context, secret string) (vault.Session, error)
	Logout(ctx context.Context) error
	State() vault.AuthState
	Session() (vault.Session, bool)
}

// Data is the part of the SDK Data namespace the CLI uses.
type Data interface {
	Submit(ctx context.Context, label, plaintext string) (vault.SubmitResponse, error)
	List(ctx context.Context) ([]vault.CollectionSummary, error)
	Decrypt(ctx context.Context, collectionID string) (vault.DecryptedCollection, error)
}

// Stream is the part of the SDK WS namespace the CLI uses.
type Stream interface {
	Connect(ctx context.Context) error
	Disconnect()
	Subscribe(event string, handler vault.Handler) (vault.Subscription, error)
	OnError(fn func(error))
}
