// Package apierrors defines the error taxonomy shared by every layer of the
// SDK: authentication, encryption, network and validation failures.
//
// Each category is a concrete type so callers can branch with [errors.As],
// and each wraps a cause so [errors.Is] reaches the sentinels below.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNotAuthenticated is returned when an operation needs a credential
	// that the client does not hold.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLoginRejected is returned when the server refuses a login.
	ErrLoginRejected = errors.New("login rejected")

	// ErrSessionRenewalFailed is reported when the scheduled renewal of a
	// session did not succeed. The session is gone; the user must log in again.
	ErrSessionRenewalFailed = errors.New("session renewal failed")

	// ErrInvalidSession is returned when a login response cannot produce a
	// session with a known expiry.
	ErrInvalidSession = errors.New("invalid session")

	// ErrDecryptionFailed is the single cause of every decryption failure.
	// Wrong secret, truncation and tampering are deliberately not told apart.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrEncryptionFailed is returned when a payload could not be sealed.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrReconnectExhausted is reported when the event stream gave up after
	// too many consecutive connection failures.
	ErrReconnectExhausted = errors.New("event stream reconnect attempts exhausted")

	// ErrEmptyLabel is returned when a submission has no label.
	ErrEmptyLabel = errors.New("label is empty")

	// ErrEmptyCollectionID is returned when a collection id is required but empty.
	ErrEmptyCollectionID = errors.New("collection id is empty")

	// ErrInvalidSecret is returned when a secret fails the local format check.
	ErrInvalidSecret = errors.New("secret has invalid format")
)

// AuthenticationError reports a rejected login or renewal, or an operation
// attempted without a valid credential.
type AuthenticationError struct {
	Op  string
	Err error
}

func (e *AuthenticationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("authentication error: %v", e.Err)
	}
	return fmt.Sprintf("authentication error: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// EncryptionError reports a local encrypt or decrypt failure. Its message
// never says why decryption failed.
type EncryptionError struct {
	Op  string
	Err error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncryptionError) Unwrap() error {
	return e.Err
}

// NetworkError represents a transport-level failure or a non-2xx response.
// StatusCode is zero when no response was received.
type NetworkError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("network error: %s: http %d: %s", e.Endpoint, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("network error: %s: http %d", e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("network error: %s: %v", e.Endpoint, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the server answered 401 or 403.
func (e *NetworkError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// ValidationError reports malformed input caught before any network or
// crypto call.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewAuthenticationError wraps err as an [AuthenticationError] for op.
func NewAuthenticationError(op string, err error) error {
	return &AuthenticationError{Op: op, Err: err}
}

// NewEncryptionError wraps err as an [EncryptionError] for op.
func NewEncryptionError(op string, err error) error {
	return &EncryptionError{Op: op, Err: err}
}

// NewValidationError wraps err as a [ValidationError] on field.
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsAuthentication reports whether err is or wraps an [AuthenticationError].
func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// IsNetwork reports whether err is or wraps a [NetworkError].
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}
