package vault

import (
	"github.com/MKhiriev/go-chain-vault/internal/config"
	"github.com/MKhiriev/go-chain-vault/internal/events"
	"github.com/MKhiriev/go-chain-vault/internal/service"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
	"github.com/MKhiriev/go-chain-vault/models"
)

// Config is the client configuration. See [LoadConfig].
type Config = config.ClientConfig

type (
	Account             = models.Account
	Session             = models.Session
	SubmitResponse      = models.SubmitResponse
	CollectionSummary   = models.CollectionSummary
	DecryptedCollection = models.DecryptedCollection
)

// Event stream types.
type (
	Event        = events.Event
	Handler      = events.Handler
	Subscription = events.Subscription
	StreamState  = events.State
)

const (
	StreamDisconnected = events.Disconnected
	StreamConnecting   = events.Connecting
	StreamConnected    = events.Connected
	StreamReconnecting = events.Reconnecting
)

// AuthState is the credential lifecycle state.
type AuthState = service.AuthState

const (
	Anonymous     = service.Anonymous
	Provisioned   = service.Provisioned
	Authenticated = service.Authenticated
)

// Scheduler is the clock and timer source used for renewal, reconnect and
// keepalive timers.
type Scheduler = workers.Scheduler

// LoadConfig reads configuration from the environment, args and an optional
// JSON file, in that order of increasing precedence.
func LoadConfig(args []string) (*Config, error) {
	return config.GetClientConfig(args)
}
