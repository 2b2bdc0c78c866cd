package service

import (
	"fmt"
	"math"
	"time"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/utils"
	"github.com/MKhiriev/go-chain-vault/models"
)

// maxLifetimeSeconds is the longest lifetime representable as a time.Duration.
const maxLifetimeSeconds = math.MaxInt64 / int64(time.Second)

// sessionFromResponse turns a login response into a session anchored at now.
// Missing subject or lifetime is filled from the token's unverified claims;
// without any lifetime the session is rejected since its expiry would be
// unknown.
func sessionFromResponse(resp models.LoginResponse, now time.Time) (models.Session, error) {
	if resp.SessionToken == "" {
		return models.Session{}, fmt.Errorf("%w: empty session token", apierrors.ErrInvalidSession)
	}

	if resp.ExpiresInSeconds > maxLifetimeSeconds {
		return models.Session{}, fmt.Errorf("%w: session lifetime %ds out of range", apierrors.ErrInvalidSession, resp.ExpiresInSeconds)
	}

	session := models.Session{Token: resp.SessionToken, SubjectID: resp.SubjectID}
	if resp.ExpiresInSeconds > 0 {
		session.ExpiresAt = now.Add(time.Duration(resp.ExpiresInSeconds) * time.Second)
	}

	if session.SubjectID == "" || session.ExpiresAt.IsZero() {
		if claims, err := utils.ParseUnverifiedClaims(resp.SessionToken); err == nil {
			if session.SubjectID == "" {
				session.SubjectID = claims.Subject
			}
			if session.ExpiresAt.IsZero() && claims.ExpiresAt.After(now) {
				session.ExpiresAt = claims.ExpiresAt
			}
		}
	}

	if session.ExpiresAt.IsZero() {
		return models.Session{}, fmt.Errorf("%w: no session lifetime", apierrors.ErrInvalidSession)
	}
	if !session.ExpiresAt.After(now) {
		return models.Session{}, fmt.Errorf("%w: session already expired", apierrors.ErrInvalidSession)
	}

	return session, nil
}

// renewalDelay returns when to renew a session expiring at expiresAt: lead
// before expiry, but never earlier than half of the remaining lifetime.
func renewalDelay(now, expiresAt time.Time, lead time.Duration) time.Duration {
	lifetime := expiresAt.Sub(now)
	if lifetime <= 0 {
		return 0
	}

	delay := lifetime - lead
	if half := lifetime / 2; delay < half {
		delay = half
	}
	return delay
}
