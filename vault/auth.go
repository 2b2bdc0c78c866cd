package vault

import (
	"context"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/models"
)

// AuthAPI is the Auth namespace of a [Client].
type AuthAPI struct {
	c *Client
}

// CreateAccount registers a new account and keeps its secret. The secret is
// issued only once; it is persisted before CreateAccount returns. If storing
// it fails, the account is still returned alongside the error so the secret
// can be shown to the user.
func (a *AuthAPI) CreateAccount(ctx context.Context) (Account, error) {
	return a.c.services.Accounts.CreateAccount(ctx)
}

// Login exchanges the stored secret for a session.
func (a *AuthAPI) Login(ctx context.Context) (Session, error) {
	secret := a.c.services.Credentials.Secret()
	if secret == "" {
		return Session{}, apierrors.NewAuthenticationError("login", apierrors.ErrNotAuthenticated)
	}
	return a.c.services.Credentials.Login(ctx, secret)
}

// LoginWithSecret logs in with an externally kept secret, which replaces the
// stored one on success.
func (a *AuthAPI) LoginWithSecret(ctx context.Context, secret string) (Session, error) {
	if err := a.c.validator.Validate(ctx, models.LoginRequest{Secret: secret}); err != nil {
		return Session{}, err
	}
	return a.c.services.Credentials.Login(ctx, secret)
}

// Logout closes the event stream and forgets every credential. It is safe
// to call repeatedly.
func (a *AuthAPI) Logout(ctx context.Context) error {
	a.c.stream.Disconnect()
	return a.c.services.Credentials.Logout(ctx)
}

// IsAuthenticated reports whether an unexpired session is held, evaluated at
// call time.
func (a *AuthAPI) IsAuthenticated() bool {
	return a.c.services.Credentials.IsAuthenticated()
}

// Session returns the current session if it is still valid.
func (a *AuthAPI) Session() (Session, bool) {
	return a.c.services.Credentials.Session()
}

// SubjectID returns the subject of the current valid session, or "".
func (a *AuthAPI) SubjectID() string {
	session, ok := a.c.services.Credentials.Session()
	if !ok {
		return ""
	}
	return session.SubjectID
}

// State returns the credential lifecycle state.
func (a *AuthAPI) State() AuthState {
	return a.c.services.Credentials.State()
}

// HasSecret reports whether an account secret is stored.
func (a *AuthAPI) HasSecret() bool {
	return a.c.services.Credentials.Secret() != ""
}

// OnSessionExpired registers fn for failed automatic renewals. The error is
// an [*AuthenticationError] matching [ErrSessionRenewalFailed]; by then all
// credentials are cleared and the event stream is closed.
func (a *AuthAPI) OnSessionExpired(fn func(error)) {
	if fn == nil {
		return
	}
	a.c.mu.Lock()
	defer a.c.mu.Unlock()
	a.c.onExpired = append(a.c.onExpired, fn)
}
