package vault

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-chain-vault/internal/adapter"
	"github.com/MKhiriev/go-chain-vault/internal/crypto"
	"github.com/MKhiriev/go-chain-vault/internal/events"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/service"
	"github.com/MKhiriev/go-chain-vault/internal/store"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
)

type clientOptions struct {
	logger    *logger.Logger
	scheduler workers.Scheduler
	routes    service.Routes

	// replacements for the default infrastructure, used in tests
	adapter adapter.ServerAdapter
	store   store.CredentialStore
	engine  crypto.Engine
	dialer  events.Dialer
}

// Option configures a [Client].
type Option func(*clientOptions)

// WithLogger routes SDK logs into l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = &logger.Logger{Logger: l}
	}
}

// WithLogWriter writes JSON logs to w.
func WithLogWriter(w io.Writer) Option {
	return func(o *clientOptions) {
		o.logger = logger.NewWithWriter(w, "vault")
	}
}

// WithScheduler replaces the wall clock and runtime timers, typically with a
// manual clock in tests.
func WithScheduler(s Scheduler) Option {
	return func(o *clientOptions) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithSecretEndpoints authorizes the listed endpoint patterns with the
// account secret instead of the session token. A pattern ending in "*"
// matches by prefix. Data submission always uses the secret.
func WithSecretEndpoints(patterns ...string) Option {
	return func(o *clientOptions) {
		routes := make(service.Routes, 0, len(patterns)+len(service.DefaultRoutes))
		for _, p := range patterns {
			routes = append(routes, service.Route{Pattern: p, Kind: service.CredentialSecret})
		}
		o.routes = append(routes, service.DefaultRoutes...)
	}
}

func withAdapter(a adapter.ServerAdapter) Option {
	return func(o *clientOptions) { o.adapter = a }
}

func withCredentialStore(s store.CredentialStore) Option {
	return func(o *clientOptions) { o.store = s }
}

func withEngine(e crypto.Engine) Option {
	return func(o *clientOptions) { o.engine = e }
}

func withDialer(d events.Dialer) Option {
	return func(o *clientOptions) { o.dialer = d }
}
