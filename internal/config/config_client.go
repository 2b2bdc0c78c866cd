package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ClientAdapter holds network settings used by the SDK transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the HTTP API.
	HTTPAddress string
	// WSAddress is the event stream URL.
	WSAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used to persist credential state.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains service addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Auth contains session lifecycle settings.
	Auth Auth
	// Crypto contains key-derivation settings.
	Crypto Crypto
	// Events contains event stream settings.
	Events Events
	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], derives the event
// stream address when only the HTTP address is known, and validates the
// resulting [ClientConfig].
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps cfg onto a validated [ClientConfig].
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	httpAddress := NormalizeHTTPAddress(cfg.Adapter.HTTPAddress)

	wsAddress := cfg.Adapter.WSAddress
	if wsAddress == "" && httpAddress != "" {
		derived, err := DeriveWSAddress(httpAddress)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAdapterConfigs, err)
		}
		wsAddress = derived
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    httpAddress,
			WSAddress:      wsAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Auth:   cfg.Auth,
		Crypto: cfg.Crypto,
		Events: cfg.Events,
		Args:   cfg.Args,
	}

	return clientCfg, clientCfg.validate()
}

// NormalizeHTTPAddress prefixes a bare "host:port" with http:// and strips a
// trailing slash.
func NormalizeHTTPAddress(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return strings.TrimRight(address, "/")
}

// DeriveWSAddress turns an HTTP API address into the event stream address:
// http becomes ws, https becomes wss and the path becomes /ws.
func DeriveWSAddress(httpAddress string) (string, error) {
	u, err := url.Parse(NormalizeHTTPAddress(httpAddress))
	if err != nil {
		return "", fmt.Errorf("parse http address: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
