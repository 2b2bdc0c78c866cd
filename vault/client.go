// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-chain-vault/internal/adapter"
	"github.com/MKhiriev/go-chain-vault/internal/crypto"
	"github.com/MKhiriev/go-chain-vault/internal/events"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/service"
	"github.com/MKhiriev/go-chain-vault/internal/store"
	"github.com/MKhiriev/go-chain-vault/internal/validators"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
	"github.com/MKhiriev/go-chain-vault/models"
)

// Client is one SDK instance. Instances share no state; each owns its
// credentials, storage handle and event stream.
type Client struct {
	Auth *AuthAPI
	Data *DataAPI
	WS   *WSAPI

	services    *service.ClientServices
	stream      *events.Client
	storages    *store.ClientStorages
	validator   validators.Validator
	autoConnect bool
	logger      *logger.Logger

	mu        sync.Mutex
	onExpired []func(error)
	closed    bool
}

// New builds a client from cfg and restores persisted credentials before
// returning. An expired persisted session is discarded, never exposed.
// When a valid session was restored and auto-connect is enabled, the event
// stream is opened too.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("vault: nil config")
	}

	o := &clientOptions{
		scheduler: workers.NewSystemScheduler(),
		routes:    service.DefaultRoutes,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Nop()
	}
	log := o.logger

	var storages *store.ClientStorages
	credStore := o.store
	if credStore == nil {
		var err error
		storages, err = store.NewClientStorages(ctx, cfg.Storage, log)
		if err != nil {
			return nil, fmt.Errorf("open credential storage: %w", err)
		}
		credStore = storages.Credentials
	}

	serverAdapter := o.adapter
	if serverAdapter == nil {
		var err error
		serverAdapter, err = adapter.NewHTTPServerAdapter(cfg.Adapter, log)
		if err != nil {
			_ = storages.Close()
			return nil, fmt.Errorf("create server adapter: %w", err)
		}
	}

	engine := o.engine
	if engine == nil {
		engine = crypto.NewEngine(crypto.WithIterations(cfg.Crypto.KDFIterations))
	}

	dialer := o.dialer
	if dialer == nil {
		dialer = events.NewWebsocketDialer(cfg.Adapter.RequestTimeout)
	}

	services := service.NewClientServices(credStore, serverAdapter, engine, o.scheduler, log,
		service.WithRoutes(o.routes),
		service.WithRenewalLead(cfg.Auth.RenewalLeadTime),
	)

	credentials := services.Credentials
	stream := events.NewClient(cfg.Adapter.WSAddress, cfg.Events, dialer,
		func() (string, bool) { return credentials.AuthorizationFor(models.EndpointEvents) },
		o.scheduler, log)

	c := &Client{
		services:    services,
		stream:      stream,
		storages:    storages,
		validator:   validators.NewRequestValidator(),
		autoConnect: !cfg.Events.DisableAutoConnect,
		logger:      log.Component("vault"),
	}
	c.Auth = &AuthAPI{c: c}
	c.Data = &DataAPI{c: c}
	c.WS = &WSAPI{c: c}

	credentials.OnRenewalFailure(c.handleRenewalFailure)
	credentials.OnSessionChange(c.handleSessionChange)

	if err := credentials.Restore(ctx); err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("restore credentials: %w", err)
	}

	if credentials.IsAuthenticated() {
		c.connectStream(ctx)
	}

	return c, nil
}

// Close disconnects the event stream and releases storage. It does not log
// out; persisted credentials are restored by the next [New].
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.stream.Disconnect()
	c.services.Credentials.Close()
	return c.storages.Close()
}

// handleRenewalFailure tears the stream down and forwards the failure.
func (c *Client) handleRenewalFailure(err error) {
	c.stream.Disconnect()

	c.mu.Lock()
	observers := c.onExpired
	c.mu.Unlock()

	for _, fn := range observers {
		fn(err)
	}
}

func (c *Client) handleSessionChange(models.Session) {
	c.connectStream(context.Background())
}

// connectStream opens the stream when auto-connect is enabled. Failures are
// retried by the stream itself.
func (c *Client) connectStream(ctx context.Context) {
	if !c.autoConnect {
		return
	}
	if err := c.stream.Connect(ctx); err != nil {
		c.logger.Warn().Err(err).Str("func", "*Client.connectStream").Msg("event stream auto-connect failed, retrying in background")
	}
}
