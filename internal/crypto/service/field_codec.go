package service

import (
	"context"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// fieldCodec implements FieldCodec on top of a single process-wide field
// encryption key. Ciphers for every supported algorithm are constructed up
// front so envelopes written before an algorithm rotation still decrypt, and
// so callers can zero the raw key right after construction.
type fieldCodec struct {
	ciphers   map[cryptoDomain.Algorithm]AEAD
	algorithm cryptoDomain.Algorithm
}

// NewFieldCodec creates a FieldCodec for the given 32-byte key. New envelopes
// are sealed with alg; envelopes carrying any supported algorithm decrypt.
func NewFieldCodec(key []byte, alg cryptoDomain.Algorithm, manager AEADManager) (FieldCodec, error) {
	ciphers := make(map[cryptoDomain.Algorithm]AEAD, 2)
	for _, candidate := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		cipher, err := manager.CreateCipher(key, candidate)
		if err != nil {
			return nil, err
		}
		ciphers[candidate] = cipher
	}

	if _, ok := ciphers[alg]; !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	return &fieldCodec{ciphers: ciphers, algorithm: alg}, nil
}

// EncryptString encrypts a plaintext field value into an encoded envelope.
// The context deadline bounds the operation; an expired context aborts before
// any ciphertext is produced.
func (f *fieldCodec) EncryptString(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cipher := f.ciphers[f.algorithm]
	ciphertext, nonce, err := cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", err
	}

	envelope := cryptoDomain.Envelope{
		Algorithm:  f.algorithm,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
	return envelope.Encode(), nil
}

// DecryptString decrypts an encoded envelope back to the plaintext value.
// Returns ErrMalformedEnvelope for values without envelope framing and
// ErrDecryptionFailed when tag verification fails; never partial plaintext.
func (f *fieldCodec) DecryptString(ctx context.Context, encoded string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	envelope, err := cryptoDomain.ParseEnvelope(encoded)
	if err != nil {
		return "", err
	}

	cipher, ok := f.ciphers[envelope.Algorithm]
	if !ok {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := cipher.Decrypt(envelope.Ciphertext, envelope.Nonce, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
