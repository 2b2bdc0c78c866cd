// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for communicating with the
// remote vault service.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from HTTP. The adapter never decides which credential to send: the
// caller passes the credential chosen by the credential manager's routing
// table and the adapter attaches it as a bearer token.
//
// Non-2xx responses and transport failures are mapped by mapHTTPError to
// *apierrors.NetworkError so callers can inspect the status code with
// [errors.As].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-chain-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the remote vault service.
type ServerAdapter interface {
	// CreateAccount asks the service for a new account. The returned secret
	// is shown exactly once.
	CreateAccount(ctx context.Context) (models.Account, error)

	// Login exchanges the long-lived secret for a session.
	Login(ctx context.Context, secret string) (models.LoginResponse, error)

	// SubmitData stores an already encrypted payload. credential must be the
	// account secret.
	SubmitData(ctx context.Context, credential string, req models.SubmitRequest) (models.SubmitResponse, error)

	// ListCollections returns summaries of the stored collections.
	ListCollections(ctx context.Context, credential string) ([]models.CollectionSummary, error)

	// FetchCollection returns one stored collection with its payload still
	// encrypted.
	FetchCollection(ctx context.Context, credential, collectionID string) (models.CollectionRecord, error)
}
