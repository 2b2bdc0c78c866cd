// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-chain-vault/internal/adapter"
	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/store"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
	"github.com/MKhiriev/go-chain-vault/models"
)

// AuthState is the lifecycle state of the credentials.
type AuthState int

const (
	// Anonymous holds neither a secret nor a valid session.
	Anonymous AuthState = iota
	// Provisioned holds a secret but no valid session.
	Provisioned
	// Authenticated holds a valid session.
	Authenticated
)

func (s AuthState) String() string {
	switch s {
	case Provisioned:
		return "provisioned"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// DefaultRenewalLead is how long before expiry a session is renewed.
const DefaultRenewalLead = 5 * time.Minute

type credentialManager struct {
	store     store.CredentialStore
	adapter   adapter.ServerAdapter
	scheduler workers.Scheduler
	routes    Routes
	lead      time.Duration
	logger    *logger.Logger

	// opMu serializes every state change together with its storage write, so
	// storage never ends up behind memory. Network calls run outside it.
	opMu sync.Mutex

	mu    sync.Mutex
	state models.CredentialState
	// generation changes on every state replacement; a renewal started under
	// an older generation is discarded.
	generation uint64
	renewal    workers.Timer

	onFailure []func(error)
	onSession []func(models.Session)
}

// CredentialManagerOption configures a [CredentialManager].
type CredentialManagerOption func(*credentialManager)

// WithRoutes replaces [DefaultRoutes].
func WithRoutes(routes Routes) CredentialManagerOption {
	return func(m *credentialManager) {
		m.routes = routes
	}
}

// WithRenewalLead sets how long before expiry the session is renewed.
func WithRenewalLead(lead time.Duration) CredentialManagerOption {
	return func(m *credentialManager) {
		if lead >= 0 {
			m.lead = lead
		}
	}
}

// NewCredentialManager constructs an anonymous [CredentialManager]. Call
// Restore to load persisted state.
func NewCredentialManager(
	credStore store.CredentialStore,
	serverAdapter adapter.ServerAdapter,
	scheduler workers.Scheduler,
	log *logger.Logger,
	opts ...CredentialManagerOption,
) CredentialManager {
	m := &credentialManager{
		store:     credStore,
		adapter:   serverAdapter,
		scheduler: scheduler,
		routes:    DefaultRoutes,
		lead:      DefaultRenewalLead,
		logger:    log.Component("credentials"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *credentialManager) SetSecret(ctx context.Context, secret string) error {
	if secret == "" {
		return apierrors.NewValidationError("secret", apierrors.ErrInvalidSecret)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.store.SaveSecret(ctx, secret); err != nil {
		return fmt.Errorf("persist secret: %w", err)
	}

	m.mu.Lock()
	dropSession := m.state.Secret != "" && m.state.Secret != secret && m.state.SessionToken != ""
	if dropSession {
		m.replaceLocked(models.CredentialState{Secret: secret})
	} else {
		m.state.Secret = secret
	}
	m.mu.Unlock()

	if dropSession {
		if err := m.store.ClearSession(ctx); err != nil {
			return fmt.Errorf("clear previous session: %w", err)
		}
	}

	m.logger.Info().Str("func", "*credentialManager.SetSecret").Msg("secret provisioned")
	return nil
}

func (m *credentialManager) Login(ctx context.Context, secret string) (models.Session, error) {
	if secret == "" {
		return models.Session{}, apierrors.NewAuthenticationError("login", apierrors.ErrNotAuthenticated)
	}

	session, err := m.requestSession(ctx, "login", secret)
	if err != nil {
		return models.Session{}, err
	}

	m.opMu.Lock()
	if err := m.persist(ctx, secret, session); err != nil {
		m.opMu.Unlock()
		return models.Session{}, err
	}

	m.mu.Lock()
	m.replaceLocked(models.CredentialState{
		Secret:       secret,
		SessionToken: session.Token,
		SubjectID:    session.SubjectID,
		ExpiresAt:    session.ExpiresAt,
	})
	m.armRenewalLocked()
	observers := m.onSession
	m.mu.Unlock()
	m.opMu.Unlock()

	m.logger.Info().
		Str("func", "*credentialManager.Login").
		Str("subject_id", session.SubjectID).
		Time("expires_at", session.ExpiresAt).
		Msg("session established")

	for _, fn := range observers {
		fn(session)
	}
	return session, nil
}

func (m *credentialManager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	m.replaceLocked(models.CredentialState{})
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted credentials: %w", err)
	}

	m.logger.Info().Str("func", "*credentialManager.Logout").Msg("logged out")
	return nil
}

func (m *credentialManager) Restore(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	loaded, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load persisted credentials: %w", err)
	}

	now := m.scheduler.Now()
	hasSessionFields := loaded.SessionToken != "" || loaded.SubjectID != "" || !loaded.ExpiresAt.IsZero()
	if hasSessionFields && !loaded.Session().ValidAt(now) {
		m.logger.Info().Str("func", "*credentialManager.Restore").Msg("discarding expired session")
		loaded = loaded.WithoutSession()
		if err := m.store.ClearSession(ctx); err != nil {
			m.logger.Err(err).Str("func", "*credentialManager.Restore").Msg("failed to purge expired session")
		}
	}

	m.mu.Lock()
	m.replaceLocked(loaded)
	if loaded.Session().ValidAt(now) {
		m.armRenewalLocked()
	}
	state := m.stateLocked(now)
	m.mu.Unlock()

	m.logger.Debug().Str("func", "*credentialManager.Restore").Stringer("state", state).Msg("credentials restored")
	return nil
}

func (m *credentialManager) AuthorizationFor(endpoint models.Endpoint) (string, bool) {
	kind := m.routes.KindFor(endpoint)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case CredentialSecret:
		return m.state.Secret, m.state.Secret != ""
	default:
		if !m.state.Session().ValidAt(m.scheduler.Now()) {
			return "", false
		}
		return m.state.SessionToken, true
	}
}

func (m *credentialManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Session().ValidAt(m.scheduler.Now())
}

func (m *credentialManager) State() AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked(m.scheduler.Now())
}

func (m *credentialManager) Secret() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Secret
}

func (m *credentialManager) Session() (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.state.Session()
	if !session.ValidAt(m.scheduler.Now()) {
		return models.Session{}, false
	}
	return session, true
}

func (m *credentialManager) OnRenewalFailure(fn func(error)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFailure = append(m.onFailure, fn)
}

func (m *credentialManager) OnSessionChange(fn func(models.Session)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSession = append(m.onSession, fn)
}

func (m *credentialManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renewal != nil {
		m.renewal.Stop()
		m.renewal = nil
	}
	m.generation++
}

// requestSession performs the login call and builds a session from it.
func (m *credentialManager) requestSession(ctx context.Context, op, secret string) (models.Session, error) {
	resp, err := m.adapter.Login(ctx, secret)
	if err != nil {
		var netErr *apierrors.NetworkError
		if errors.As(err, &netErr) && netErr.Unauthorized() {
			return models.Session{}, apierrors.NewAuthenticationError(op, fmt.Errorf("%w: %w", apierrors.ErrLoginRejected, err))
		}
		return models.Session{}, apierrors.NewAuthenticationError(op, err)
	}

	session, err := sessionFromResponse(resp, m.scheduler.Now())
	if err != nil {
		return models.Session{}, apierrors.NewAuthenticationError(op, err)
	}
	return session, nil
}

// persist writes the secret and session as one unit; on failure the
// previously stored state is left as it was.
func (m *credentialManager) persist(ctx context.Context, secret string, session models.Session) error {
	if err := m.store.SaveCredentials(ctx, secret, session); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	return nil
}

// replaceLocked swaps the whole state, cancelling any pending renewal.
func (m *credentialManager) replaceLocked(state models.CredentialState) {
	if m.renewal != nil {
		m.renewal.Stop()
		m.renewal = nil
	}
	m.generation++
	m.state = state
}

func (m *credentialManager) armRenewalLocked() {
	now := m.scheduler.Now()
	delay := renewalDelay(now, m.state.ExpiresAt, m.lead)
	generation := m.generation

	m.renewal = m.scheduler.AfterFunc(delay, func() {
		m.renew(generation)
	})

	m.logger.Debug().
		Str("func", "*credentialManager.armRenewalLocked").
		Dur("delay", delay).
		Msg("renewal scheduled")
}

func (m *credentialManager) isGeneration(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return generation == m.generation
}

func (m *credentialManager) stateLocked(now time.Time) AuthState {
	switch {
	case m.state.Session().ValidAt(now):
		return Authenticated
	case m.state.HasSecret():
		return Provisioned
	default:
		return Anonymous
	}
}

// renew runs on the renewal timer. It is a no-op when the state it was armed
// for has since been replaced.
func (m *credentialManager) renew(generation uint64) {
	ctx := m.logger.WithContext(context.Background())

	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		return
	}
	m.renewal = nil
	secret := m.state.Secret
	m.mu.Unlock()

	m.logger.Debug().Str("func", "*credentialManager.renew").Msg("renewing session")

	var (
		session models.Session
		err     error
	)
	if secret == "" {
		err = apierrors.ErrNotAuthenticated
	} else {
		session, err = m.requestSession(ctx, "renew", secret)
	}
	if err == nil {
		err = m.applyRenewal(ctx, generation, session)
	}
	if err != nil {
		m.failRenewal(ctx, generation, err)
	}
}

func (m *credentialManager) applyRenewal(ctx context.Context, generation uint64, session models.Session) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !m.isGeneration(generation) {
		return nil
	}

	if err := m.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("persist renewed session: %w", err)
	}

	m.mu.Lock()
	// same state object, new token and expiry
	m.state.SessionToken = session.Token
	m.state.SubjectID = session.SubjectID
	m.state.ExpiresAt = session.ExpiresAt
	m.generation++
	m.armRenewalLocked()
	observers := m.onSession
	m.mu.Unlock()

	m.logger.Info().
		Str("func", "*credentialManager.applyRenewal").
		Time("expires_at", session.ExpiresAt).
		Msg("session renewed")

	for _, fn := range observers {
		fn(session)
	}
	return nil
}

func (m *credentialManager) failRenewal(ctx context.Context, generation uint64, cause error) {
	m.opMu.Lock()
	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		m.opMu.Unlock()
		return
	}
	m.replaceLocked(models.CredentialState{})
	observers := m.onFailure
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Err(err).Str("func", "*credentialManager.failRenewal").Msg("failed to clear persisted credentials")
	}
	m.opMu.Unlock()

	m.logger.Error().Err(cause).Str("func", "*credentialManager.failRenewal").Msg("session renewal failed, credentials cleared")

	var authErr *apierrors.AuthenticationError
	if errors.As(cause, &authErr) {
		cause = authErr.Err
	}
	err := apierrors.NewAuthenticationError("renew", fmt.Errorf("%w: %w", apierrors.ErrSessionRenewalFailed, cause))
	for _, fn := range observers {
		fn(err)
	}
}
