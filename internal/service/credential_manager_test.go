package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/internal/mock"
	"github.com/MKhiriev/go-chain-vault/internal/workers"
	"github.com/MKhiriev/go-chain-vault/models"
)

const testSecret = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestManager builds a credentialManager over mocks and a manual clock.
func newTestManager(
	t *testing.T,
	ctrl *gomock.Controller,
	opts ...CredentialManagerOption,
) (
	*credentialManager,
	*mock.MockServerAdapter,
	*mock.MockCredentialStore,
	*workers.ManualScheduler,
) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockStore := mock.NewMockCredentialStore(ctrl)
	clock := workers.NewManualScheduler(testStart)

	m := NewCredentialManager(mockStore, mockAdapter, clock, logger.Nop(), opts...).(*credentialManager)
	return m, mockAdapter, mockStore, clock
}

// loginOK drives a successful login with the given lifetime.
func loginOK(t *testing.T, m *credentialManager, a *mock.MockServerAdapter, s *mock.MockCredentialStore, token string, lifetime time.Duration) models.Session {
	t.Helper()
	a.EXPECT().Login(gomock.Any(), testSecret).Return(models.LoginResponse{
		SessionToken:     token,
		SubjectID:        "user-1",
		ExpiresInSeconds: int64(lifetime / time.Second),
	}, nil)
	s.EXPECT().SaveCredentials(gomock.Any(), testSecret, gomock.Any()).Return(nil)

	session, err := m.Login(context.Background(), testSecret)
	require.NoError(t, err)
	return session
}

// frozenScheduler keeps time manual but never fires timers.
type frozenScheduler struct {
	*workers.ManualScheduler
}

type inertTimer struct{}

func (inertTimer) Stop() bool { return true }

func (frozenScheduler) AfterFunc(time.Duration, func()) workers.Timer { return inertTimer{} }

// ── Login ────────────────────────────────────────────────────────────────────

func TestCredentialManager_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).Return(models.LoginResponse{
		SessionToken: "tok-1", SubjectID: "user-1", ExpiresInSeconds: 3600,
	}, nil)
	mockStore.EXPECT().SaveCredentials(gomock.Any(), testSecret, models.Session{
		Token: "tok-1", SubjectID: "user-1", ExpiresAt: testStart.Add(time.Hour),
	}).Return(nil)

	session, err := m.Login(context.Background(), testSecret)

	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, testStart.Add(time.Hour), session.ExpiresAt)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, []time.Duration{55 * time.Minute}, clock.Pending())
}

func TestCredentialManager_Login_EmptySecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, _, _ := newTestManager(t, ctrl)

	_, err := m.Login(context.Background(), "")

	assert.True(t, apierrors.IsAuthentication(err))
	assert.ErrorIs(t, err, apierrors.ErrNotAuthenticated)
}

func TestCredentialManager_Login_RejectedKeepsPriorState(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{}, &apierrors.NetworkError{StatusCode: 401, Endpoint: "account/login"})

	_, err := m.Login(context.Background(), testSecret)

	require.Error(t, err)
	assert.True(t, apierrors.IsAuthentication(err))
	assert.ErrorIs(t, err, apierrors.ErrLoginRejected)
	var netErr *apierrors.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 401, netErr.StatusCode)

	token, ok := m.AuthorizationFor(models.EndpointDataList)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)
	assert.Len(t, clock.Pending(), 1)
}

func TestCredentialManager_Login_NetworkFailureIsNotRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, _, _ := newTestManager(t, ctrl)

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{}, &apierrors.NetworkError{Endpoint: "account/login", Err: errors.New("connection refused")})

	_, err := m.Login(context.Background(), testSecret)

	assert.True(t, apierrors.IsAuthentication(err))
	assert.True(t, apierrors.IsNetwork(err))
	assert.NotErrorIs(t, err, apierrors.ErrLoginRejected)
	assert.Equal(t, Anonymous, m.State())
}

func TestCredentialManager_Login_NoLifetime(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, _, _ := newTestManager(t, ctrl)

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{SessionToken: "opaque"}, nil)

	_, err := m.Login(context.Background(), testSecret)

	assert.ErrorIs(t, err, apierrors.ErrInvalidSession)
	assert.False(t, m.IsAuthenticated())
}

func TestCredentialManager_Login_JWTClaimsFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, _ := newTestManager(t, ctrl)

	exp := testStart.Add(30 * time.Minute)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-from-claims",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-key"))
	require.NoError(t, err)

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).Return(models.LoginResponse{SessionToken: token}, nil)
	mockStore.EXPECT().SaveCredentials(gomock.Any(), testSecret, gomock.Any()).Return(nil)

	session, err := m.Login(context.Background(), testSecret)

	require.NoError(t, err)
	assert.Equal(t, "user-from-claims", session.SubjectID)
	assert.True(t, exp.Equal(session.ExpiresAt))
}

func TestCredentialManager_Login_PersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{SessionToken: "tok", SubjectID: "u", ExpiresInSeconds: 60}, nil)
	mockStore.EXPECT().SaveCredentials(gomock.Any(), testSecret, gomock.Any()).Return(errors.New("disk full"))

	_, err := m.Login(context.Background(), testSecret)

	require.Error(t, err)
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, clock.Pending())
}

func TestCredentialManager_Login_OutOfRangeLifetime(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, _, clock := newTestManager(t, ctrl)

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{SessionToken: "tok", SubjectID: "u", ExpiresInSeconds: 10_000_000_000}, nil)

	_, err := m.Login(context.Background(), testSecret)

	require.ErrorIs(t, err, apierrors.ErrInvalidSession)
	assert.True(t, apierrors.IsAuthentication(err))
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, clock.Pending())
}

func TestCredentialManager_NewLoginReplacesRenewalTimer(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)

	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)
	loginOK(t, m, mockAdapter, mockStore, "tok-2", 2*time.Hour)

	assert.Equal(t, []time.Duration{115 * time.Minute}, clock.Pending())
}

// ── Expiry ───────────────────────────────────────────────────────────────────

// TestCredentialManager_ExpiryIsEvaluatedOnEveryCall verifies that time
// passing alone flips IsAuthenticated, with no timer involved.
func TestCredentialManager_ExpiryIsEvaluatedOnEveryCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockStore := mock.NewMockCredentialStore(ctrl)
	clock := frozenScheduler{workers.NewManualScheduler(testStart)}
	m := NewCredentialManager(mockStore, mockAdapter, clock, logger.Nop()).(*credentialManager)

	loginOK(t, m, mockAdapter, mockStore, "tok-1", 10*time.Minute)
	require.True(t, m.IsAuthenticated())

	clock.Advance(10*time.Minute - time.Nanosecond)
	assert.True(t, m.IsAuthenticated())

	clock.Advance(time.Nanosecond)
	assert.False(t, m.IsAuthenticated())

	_, ok := m.AuthorizationFor(models.EndpointDataList)
	assert.False(t, ok, "an expired token must never be handed out")
	_, ok = m.Session()
	assert.False(t, ok)
	assert.Equal(t, Provisioned, m.State())
}

// ── Routing ──────────────────────────────────────────────────────────────────

func TestCredentialManager_AuthorizationRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, _ := newTestManager(t, ctrl)

	_, ok := m.AuthorizationFor(models.EndpointDataSubmit)
	assert.False(t, ok)
	_, ok = m.AuthorizationFor(models.EndpointDataList)
	assert.False(t, ok)

	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	cred, ok := m.AuthorizationFor(models.EndpointDataSubmit)
	assert.True(t, ok)
	assert.Equal(t, testSecret, cred)

	cred, ok = m.AuthorizationFor(models.EndpointDataList)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", cred)

	cred, ok = m.AuthorizationFor(models.DecryptEndpoint("c-1"))
	assert.True(t, ok)
	assert.Equal(t, "tok-1", cred)
}

func TestCredentialManager_ProvisionedRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, mockStore, _ := newTestManager(t, ctrl)

	mockStore.EXPECT().SaveSecret(gomock.Any(), testSecret).Return(nil)
	require.NoError(t, m.SetSecret(context.Background(), testSecret))

	assert.Equal(t, Provisioned, m.State())
	cred, ok := m.AuthorizationFor(models.EndpointDataSubmit)
	assert.True(t, ok)
	assert.Equal(t, testSecret, cred)
	_, ok = m.AuthorizationFor(models.EndpointDataList)
	assert.False(t, ok)
}

func TestCredentialManager_CustomRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, _ := newTestManager(t, ctrl, WithRoutes(Routes{
		{Pattern: "data/submit", Kind: CredentialSecret},
		{Pattern: "data/decrypt/*", Kind: CredentialSecret},
	}))
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	cred, _ := m.AuthorizationFor(models.DecryptEndpoint("c-1"))
	assert.Equal(t, testSecret, cred)
	cred, _ = m.AuthorizationFor(models.EndpointDataList)
	assert.Equal(t, "tok-1", cred)
}

// ── Renewal ──────────────────────────────────────────────────────────────────

func TestCredentialManager_RenewalSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	var observed []models.Session
	m.OnSessionChange(func(s models.Session) { observed = append(observed, s) })
	m.OnRenewalFailure(func(err error) { t.Errorf("unexpected renewal failure: %v", err) })

	renewedAt := testStart.Add(55 * time.Minute)
	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{SessionToken: "tok-2", SubjectID: "user-1", ExpiresInSeconds: 3600}, nil)
	mockStore.EXPECT().SaveSession(gomock.Any(), models.Session{
		Token: "tok-2", SubjectID: "user-1", ExpiresAt: renewedAt.Add(time.Hour),
	}).Return(nil)

	clock.Advance(55 * time.Minute)

	cred, ok := m.AuthorizationFor(models.EndpointDataList)
	require.True(t, ok)
	assert.Equal(t, "tok-2", cred)
	require.Len(t, observed, 1)
	assert.Equal(t, "tok-2", observed[0].Token)
	assert.Equal(t, []time.Duration{55 * time.Minute}, clock.Pending())
}

func TestCredentialManager_RenewalFailureClearsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	var failures []error
	m.OnRenewalFailure(func(err error) { failures = append(failures, err) })

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{}, &apierrors.NetworkError{Endpoint: "account/login", Err: context.DeadlineExceeded})
	mockStore.EXPECT().Clear(gomock.Any()).Return(nil)

	clock.Advance(55 * time.Minute)

	require.Len(t, failures, 1)
	err := failures[0]
	assert.True(t, apierrors.IsAuthentication(err))
	assert.ErrorIs(t, err, apierrors.ErrSessionRenewalFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, Anonymous, m.State())
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Secret())
	assert.Empty(t, clock.Pending())
}

func TestCredentialManager_RenewalRejectedIsDistinguishable(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	var failure error
	m.OnRenewalFailure(func(err error) { failure = err })

	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).
		Return(models.LoginResponse{}, &apierrors.NetworkError{StatusCode: 403, Endpoint: "account/login"})
	mockStore.EXPECT().Clear(gomock.Any()).Return(nil)

	clock.Advance(time.Hour)

	require.Error(t, failure)
	assert.ErrorIs(t, failure, apierrors.ErrSessionRenewalFailed)
	assert.ErrorIs(t, failure, apierrors.ErrLoginRejected)
}

func TestCredentialManager_LogoutDuringRenewalWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	mockStore.EXPECT().Clear(gomock.Any()).Return(nil)
	mockAdapter.EXPECT().Login(gomock.Any(), testSecret).DoAndReturn(
		func(ctx context.Context, _ string) (models.LoginResponse, error) {
			require.NoError(t, m.Logout(ctx))
			return models.LoginResponse{SessionToken: "tok-2", ExpiresInSeconds: 3600}, nil
		},
	)

	clock.Advance(55 * time.Minute)

	assert.Equal(t, Anonymous, m.State())
	_, ok := m.AuthorizationFor(models.EndpointDataList)
	assert.False(t, ok)
	assert.Empty(t, clock.Pending())
}

func TestCredentialManager_RenewalClampsShortLifetime(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)

	loginOK(t, m, mockAdapter, mockStore, "tok-1", 4*time.Minute)

	assert.Equal(t, []time.Duration{2 * time.Minute}, clock.Pending())
}

func TestRenewalDelay(t *testing.T) {
	tests := []struct {
		name     string
		lifetime time.Duration
		lead     time.Duration
		want     time.Duration
	}{
		{"long lifetime", time.Hour, 5 * time.Minute, 55 * time.Minute},
		{"exactly twice the lead", 10 * time.Minute, 5 * time.Minute, 5 * time.Minute},
		{"shorter than lead", 4 * time.Minute, 5 * time.Minute, 2 * time.Minute},
		{"zero lead", time.Minute, 0, time.Minute},
		{"already expired", -time.Second, 5 * time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renewalDelay(testStart, testStart.Add(tt.lifetime), tt.lead)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── Logout ───────────────────────────────────────────────────────────────────

func TestCredentialManager_LogoutIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	mockStore.EXPECT().Clear(gomock.Any()).Return(nil).Times(2)

	require.NoError(t, m.Logout(context.Background()))
	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, Anonymous, m.State())
	assert.Empty(t, m.Secret())
	assert.Empty(t, clock.Pending())

	// no renewal may fire against the cleared state
	clock.Advance(2 * time.Hour)
}

// ── Restore ──────────────────────────────────────────────────────────────────

func TestCredentialManager_RestoreExpiredPurgesToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, mockStore, clock := newTestManager(t, ctrl)

	mockStore.EXPECT().Load(gomock.Any()).Return(models.CredentialState{
		Secret:       testSecret,
		SessionToken: "stale",
		SubjectID:    "user-1",
		ExpiresAt:    testStart.Add(-time.Minute),
	}, nil)
	mockStore.EXPECT().ClearSession(gomock.Any()).Return(nil)

	require.NoError(t, m.Restore(context.Background()))

	assert.False(t, m.IsAuthenticated())
	_, ok := m.AuthorizationFor(models.EndpointDataList)
	assert.False(t, ok)
	assert.Equal(t, testSecret, m.Secret())
	assert.Equal(t, Provisioned, m.State())
	assert.Equal(t, models.CredentialState{Secret: testSecret}, m.state)
	assert.Empty(t, clock.Pending())
}

func TestCredentialManager_RestoreMissingExpiryPurgesToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, mockStore, _ := newTestManager(t, ctrl)

	mockStore.EXPECT().Load(gomock.Any()).Return(models.CredentialState{SessionToken: "orphan"}, nil)
	mockStore.EXPECT().ClearSession(gomock.Any()).Return(nil)

	require.NoError(t, m.Restore(context.Background()))

	assert.Equal(t, Anonymous, m.State())
}

func TestCredentialManager_RestoreValidArmsRenewal(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, mockStore, clock := newTestManager(t, ctrl)

	mockStore.EXPECT().Load(gomock.Any()).Return(models.CredentialState{
		Secret:       testSecret,
		SessionToken: "tok",
		SubjectID:    "user-1",
		ExpiresAt:    testStart.Add(time.Hour),
	}, nil)

	require.NoError(t, m.Restore(context.Background()))

	assert.True(t, m.IsAuthenticated())
	session, ok := m.Session()
	require.True(t, ok)
	assert.Equal(t, "user-1", session.SubjectID)
	assert.Equal(t, []time.Duration{55 * time.Minute}, clock.Pending())
}

func TestCredentialManager_RestoreLoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, mockStore, _ := newTestManager(t, ctrl)

	mockStore.EXPECT().Load(gomock.Any()).Return(models.CredentialState{}, errors.New("corrupt"))

	assert.Error(t, m.Restore(context.Background()))
	assert.Equal(t, Anonymous, m.State())
}

// ── SetSecret ────────────────────────────────────────────────────────────────

func TestCredentialManager_SetSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, mockStore, _ := newTestManager(t, ctrl)

	mockStore.EXPECT().SaveSecret(gomock.Any(), testSecret).Return(nil)

	require.NoError(t, m.SetSecret(context.Background(), testSecret))
	assert.Equal(t, Provisioned, m.State())
	assert.Equal(t, testSecret, m.Secret())
}

func TestCredentialManager_SetSecret_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, _, _ := newTestManager(t, ctrl)

	err := m.SetSecret(context.Background(), "")

	var vErr *apierrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCredentialManager_SetSecret_PersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, mockStore, _ := newTestManager(t, ctrl)

	mockStore.EXPECT().SaveSecret(gomock.Any(), testSecret).Return(errors.New("readonly"))

	assert.Error(t, m.SetSecret(context.Background(), testSecret))
	assert.Equal(t, Anonymous, m.State())
}

func TestCredentialManager_SetDifferentSecretDropsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	other := "ffeeddccbbaa99887766554433221100"
	mockStore.EXPECT().SaveSecret(gomock.Any(), other).Return(nil)
	mockStore.EXPECT().ClearSession(gomock.Any()).Return(nil)

	require.NoError(t, m.SetSecret(context.Background(), other))

	assert.Equal(t, Provisioned, m.State())
	assert.Equal(t, other, m.Secret())
	assert.Empty(t, clock.Pending())
}

func TestAuthState_String(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "provisioned", Provisioned.String())
	assert.Equal(t, "authenticated", Authenticated.String())
}

func TestCredentialManager_CloseCancelsRenewalKeepsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, mockAdapter, mockStore, clock := newTestManager(t, ctrl)
	loginOK(t, m, mockAdapter, mockStore, "tok-1", time.Hour)

	m.Close()

	assert.Empty(t, clock.Pending())
	assert.True(t, m.IsAuthenticated())
	clock.Advance(2 * time.Hour)
	assert.False(t, m.IsAuthenticated())
}
