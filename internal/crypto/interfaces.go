package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_engine_mock.go -package=mock

// Engine performs all client-side encryption. It holds no key material: every
// call derives a fresh key from the caller's secret and a random salt, so the
// engine knows nothing about credentials, the network or storage.
//
// Payload layout (base64, standard encoding):
//
//	salt (16 bytes) ‖ nonce (12 bytes) ‖ ciphertext ‖ GCM tag (16 bytes)
type Engine interface {
	// Encrypt seals plaintext under a key derived from secret. Two calls with
	// the same arguments never return the same payload.
	Encrypt(plaintext, secret string) (string, error)

	// Decrypt opens a payload produced by Encrypt with the same secret.
	// Every failure (malformed payload, wrong secret, tampering) returns an
	// error wrapping only apierrors.ErrDecryptionFailed.
	Decrypt(payload, secret string) (string, error)

	// IsValidSecretFormat is a cheap local sanity check of a secret. It never
	// replaces server-side validation.
	IsValidSecretFormat(secret string) bool
}
