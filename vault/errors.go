package vault

import (
	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/events"
)

type (
	// AuthenticationError is a rejected login or renewal, or an operation
	// attempted without the credential it needs.
	AuthenticationError = apierrors.AuthenticationError
	// EncryptionError is a local encryption or decryption failure.
	EncryptionError = apierrors.EncryptionError
	// NetworkError is a transport failure or a non-2xx response.
	NetworkError = apierrors.NetworkError
	// ValidationError is malformed input caught before any I/O.
	ValidationError = apierrors.ValidationError
	// ServerError is an error notice received on the event stream.
	ServerError = events.ServerError
)

var (
	ErrNotAuthenticated     = apierrors.ErrNotAuthenticated
	ErrLoginRejected        = apierrors.ErrLoginRejected
	ErrSessionRenewalFailed = apierrors.ErrSessionRenewalFailed
	ErrInvalidSession       = apierrors.ErrInvalidSession
	ErrDecryptionFailed     = apierrors.ErrDecryptionFailed
	ErrEncryptionFailed     = apierrors.ErrEncryptionFailed
	ErrReconnectExhausted   = apierrors.ErrReconnectExhausted
	ErrEmptyLabel           = apierrors.ErrEmptyLabel
	ErrEmptyCollectionID    = apierrors.ErrEmptyCollectionID
	ErrInvalidSecret        = apierrors.ErrInvalidSecret
)

var (
	IsAuthentication = apierrors.IsAuthentication
	IsNetwork        = apierrors.IsNetwork
)
