// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing wording shared by client front ends.
//
// All Msg* constants are human-readable messages shown in place of raw
// errors. Describe picks the one matching an SDK error so that a front end
// can tell "log in again" apart from "the network is down" and from "the
// request was rejected". Keeping them in one place keeps wording consistent.
package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
)

const (
	// MsgNotLoggedIn is shown when an operation needs a session or a secret
	// that the client does not hold.
	MsgNotLoggedIn = "not logged in"

	// MsgSessionExpired is shown when automatic session renewal failed and
	// all credentials were cleared.
	MsgSessionExpired = "session expired, please log in again"

	// MsgLoginRejected is shown when the service refused the secret.
	MsgLoginRejected = "login rejected: the secret is not valid"

	// MsgInvalidSession is shown when the service answered a login with a
	// session that has no usable expiry.
	MsgInvalidSession = "the service returned an unusable session"

	// MsgInvalidInput is shown for input rejected before anything was sent.
	MsgInvalidInput = "invalid input"

	// MsgDecryptionFailed is shown for every local decryption failure. The
	// cause is deliberately not told apart.
	MsgDecryptionFailed = "decryption failed: wrong secret or corrupted data"

	// MsgEncryptionFailed is shown when a payload could not be sealed.
	MsgEncryptionFailed = "encryption failed"

	// MsgServiceUnreachable is shown when no response arrived at all.
	MsgServiceUnreachable = "the service is unreachable, check your network"

	// MsgRequestRejected is shown for 4xx answers other than 401/403.
	MsgRequestRejected = "the service rejected the request"

	// MsgAccessDenied is shown for 401/403 answers on data endpoints.
	MsgAccessDenied = "access denied, please log in again"

	// MsgServiceError is shown for 5xx answers.
	MsgServiceError = "the service failed to process the request"

	// MsgStreamUnavailable is shown when the event stream stopped retrying.
	MsgStreamUnavailable = "event stream unavailable, gave up reconnecting"
)

// Describe returns the user-facing message for err. Errors outside the SDK
// taxonomy are returned verbatim.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		validationErr *apierrors.ValidationError
		encryptionErr *apierrors.EncryptionError
		networkErr    *apierrors.NetworkError
	)

	switch {
	case errors.Is(err, apierrors.ErrSessionRenewalFailed):
		return MsgSessionExpired
	case errors.Is(err, apierrors.ErrLoginRejected):
		return MsgLoginRejected
	case errors.Is(err, apierrors.ErrNotAuthenticated):
		return MsgNotLoggedIn
	case errors.Is(err, apierrors.ErrInvalidSession):
		return MsgInvalidSession
	case errors.Is(err, apierrors.ErrReconnectExhausted):
		return MsgStreamUnavailable
	case errors.As(err, &validationErr):
		return fmt.Sprintf("%s: %s: %v", MsgInvalidInput, validationErr.Field, validationErr.Err)
	case errors.Is(err, apierrors.ErrDecryptionFailed):
		return MsgDecryptionFailed
	case errors.As(err, &encryptionErr):
		return MsgEncryptionFailed
	case errors.As(err, &networkErr):
		return describeNetwork(networkErr)
	default:
		return err.Error()
	}
}

func describeNetwork(err *apierrors.NetworkError) string {
	switch {
	case err.StatusCode == 0:
		return MsgServiceUnreachable
	case err.Unauthorized():
		return MsgAccessDenied
	case err.StatusCode >= http.StatusInternalServerError:
		return MsgServiceError
	case err.Message != "":
		return fmt.Sprintf("%s: %s", MsgRequestRejected, err.Message)
	default:
		return MsgRequestRejected
	}
}
