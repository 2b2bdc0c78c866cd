package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid service address settings
	// (for example, missing HTTP address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAuthConfigs indicates invalid session lifecycle settings.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidCryptoConfigs indicates a KDF round count below the floor.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidEventsConfigs indicates invalid reconnect or keepalive
	// settings.
	ErrInvalidEventsConfigs = errors.New("invalid events configuration")
)
