// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Default values applied before any other source.
const (
	DefaultRequestTimeout       = 15 * time.Second
	DefaultRenewalLeadTime      = 5 * time.Minute
	DefaultKDFIterations        = 100_000
	DefaultReconnectBaseDelay   = 1 * time.Second
	DefaultReconnectMaxDelay    = 30 * time.Second
	DefaultMaxReconnectAttempts = 10
	DefaultKeepaliveInterval    = 30 * time.Second
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging defaults, environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds the addresses and timeout of the remote service.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the client-local persistence settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Auth holds session lifecycle settings.
	Auth Auth `envPrefix:"AUTH_"`

	// Crypto holds key-derivation parameters.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Events holds event-stream reconnect and keepalive settings.
	Events Events `envPrefix:"EVENTS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// Args holds the positional command-line arguments left after flag
	// parsing. It never comes from env or JSON.
	Args []string
}

// Adapter holds the network settings of the remote service.
type Adapter struct {
	// HTTPAddress is the base URL of the HTTP API, either a full URL
	// ("https://vault.example.com/api") or "host:port".
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// WSAddress is the URL of the event stream. Derived from HTTPAddress
	// when empty.
	// Env: ADAPTER_WS_ADDRESS
	WSAddress string `env:"WS_ADDRESS"`

	// RequestTimeout is the transport timeout of a single HTTP request.
	// Login and renewal rely on it; no other timeout is layered on top.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the client storage backends.
type Storage struct {
	// DB holds the SQLite settings for persisted credential state.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the path of the SQLite database file.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Auth holds session lifecycle settings.
type Auth struct {
	// RenewalLeadTime is how long before expiry the session is renewed.
	// Env: AUTH_RENEWAL_LEAD_TIME
	RenewalLeadTime time.Duration `env:"RENEWAL_LEAD_TIME"`
}

// Crypto holds key-derivation parameters.
type Crypto struct {
	// KDFIterations is the PBKDF2 round count. Payloads written with one
	// value cannot be read with another.
	// Env: CRYPTO_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`
}

// Events holds event-stream settings.
type Events struct {
	// Env: EVENTS_RECONNECT_BASE_DELAY
	ReconnectBaseDelay time.Duration `env:"RECONNECT_BASE_DELAY"`

	// Env: EVENTS_RECONNECT_MAX_DELAY
	ReconnectMaxDelay time.Duration `env:"RECONNECT_MAX_DELAY"`

	// MaxReconnectAttempts is the number of consecutive failures after which
	// the stream gives up.
	// Env: EVENTS_MAX_RECONNECT_ATTEMPTS
	MaxReconnectAttempts int `env:"MAX_RECONNECT_ATTEMPTS"`

	// Env: EVENTS_KEEPALIVE_INTERVAL
	KeepaliveInterval time.Duration `env:"KEEPALIVE_INTERVAL"`

	// DisableAutoConnect stops the SDK from opening the stream right after
	// login.
	// Env: EVENTS_DISABLE_AUTO_CONNECT
	DisableAutoConnect bool `env:"DISABLE_AUTO_CONNECT"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{RequestTimeout: DefaultRequestTimeout},
		Auth:    Auth{RenewalLeadTime: DefaultRenewalLeadTime},
		Crypto:  Crypto{KDFIterations: DefaultKDFIterations},
		Events: Events{
			ReconnectBaseDelay:   DefaultReconnectBaseDelay,
			ReconnectMaxDelay:    DefaultReconnectMaxDelay,
			MaxReconnectAttempts: DefaultMaxReconnectAttempts,
			KeepaliveInterval:    DefaultKeepaliveInterval,
		},
	}
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  0. Built-in defaults
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
