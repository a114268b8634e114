// Package service provides the cryptographic services behind field-level
// encryption at rest: AEAD ciphers, the field codec that produces ciphertext
// envelopes, and the keyed lookup hasher for equality search.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// FieldCodec encrypts and decrypts string-valued sensitive fields as
// self-describing envelopes. Implementations must fail closed: decryption
// never yields partial plaintext on authentication failure.
type FieldCodec interface {
	// EncryptString encrypts a plaintext field value into an encoded envelope.
	EncryptString(ctx context.Context, plaintext string) (string, error)

	// DecryptString decrypts an encoded envelope back to the plaintext value.
	DecryptString(ctx context.Context, encoded string) (string, error)
}

// LookupHasher produces deterministic, keyed, one-way digests over plaintext
// values so encrypted fields remain searchable by equality without decryption.
type LookupHasher interface {
	// Hash returns a fixed-length lowercase hex digest of the value.
	Hash(value string) string
}

// KMSKeeper abstracts the KMS operations used to unwrap the field encryption
// key at startup. *secrets.Keeper from gocloud.dev implements it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Close() error
}
