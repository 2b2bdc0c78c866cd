// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"golang.org/x/crypto/pbkdf2"
)

// Payload layout constants. Changing any of them makes existing payloads
// unreadable.
const (
	SaltSize  = 16
	NonceSize = 12
	KeySize   = 32 // AES-256
	TagSize   = 16

	// DefaultIterations is the PBKDF2 round count used when none is configured.
	DefaultIterations = 100_000

	minSecretBytes = 16
)

// engine is the private implementation of [Engine].
type engine struct {
	iterations int
	random     io.Reader
}

// Option tunes an [Engine].
type Option func(*engine)

// WithIterations overrides the PBKDF2 round count. Values below one are ignored.
func WithIterations(n int) Option {
	return func(e *engine) {
		if n > 0 {
			e.iterations = n
		}
	}
}

// WithRandom replaces the CSPRNG used for salts and nonces.
func WithRandom(r io.Reader) Option {
	return func(e *engine) {
		if r != nil {
			e.random = r
		}
	}
}

// NewEngine constructs an [Engine] using PBKDF2-HMAC-SHA256 for key derivation
// and AES-256-GCM for authenticated encryption.
func NewEngine(opts ...Option) Engine {
	e := &engine{
		iterations: DefaultIterations,
		random:     rand.Reader,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encrypt implements [Engine].
func (e *engine) Encrypt(plaintext, secret string) (string, error) {
	if secret == "" {
		return "", apierrors.NewEncryptionError("encrypt", apierrors.ErrInvalidSecret)
	}

	// 1. Fresh salt and nonce for every call
	buf := make([]byte, SaltSize+NonceSize, SaltSize+NonceSize+len(plaintext)+TagSize)
	if _, err := io.ReadFull(e.random, buf); err != nil {
		return "", apierrors.NewEncryptionError("encrypt", fmt.Errorf("%w: read random: %v", apierrors.ErrEncryptionFailed, err))
	}
	salt, nonce := buf[:SaltSize], buf[SaltSize:]

	// 2. Derive the per-call key
	gcm, err := e.newGCM(secret, salt)
	if err != nil {
		return "", apierrors.NewEncryptionError("encrypt", fmt.Errorf("%w: %v", apierrors.ErrEncryptionFailed, err))
	}

	// 3. salt ‖ nonce ‖ ciphertext+tag
	blob := gcm.Seal(buf, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [Engine].
func (e *engine) Decrypt(payload, secret string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(blob) < SaltSize+NonceSize+TagSize || secret == "" {
		return "", decryptionFailed()
	}

	salt := blob[:SaltSize]
	nonce := blob[SaltSize : SaltSize+NonceSize]
	sealed := blob[SaltSize+NonceSize:]

	gcm, err := e.newGCM(secret, salt)
	if err != nil {
		return "", decryptionFailed()
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", decryptionFailed()
	}

	return string(plaintext), nil
}

// IsValidSecretFormat implements [Engine]. A secret is accepted when it is
// non-empty, hex-encoded and carries at least 16 bytes of entropy.
func (e *engine) IsValidSecretFormat(secret string) bool {
	return IsValidSecretFormat(secret)
}

// IsValidSecretFormat is the package-level form of [Engine.IsValidSecretFormat].
func IsValidSecretFormat(secret string) bool {
	if secret == "" || len(secret)%2 != 0 {
		return false
	}
	raw, err := hex.DecodeString(secret)
	if err != nil {
		return false
	}
	return len(raw) >= minSecretBytes
}

func (e *engine) newGCM(secret string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(secret), salt, e.iterations, KeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

func decryptionFailed() error {
	return apierrors.NewEncryptionError("decrypt", apierrors.ErrDecryptionFailed)
}
