package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// fakeKeeper decrypts by returning a fixed key, simulating a KMS unwrap.
type fakeKeeper struct {
	unwrapped []byte
	err       error
}

func (f *fakeKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]byte, len(f.unwrapped))
	copy(out, f.unwrapped)
	return out, nil
}

func (f *fakeKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

func (f *fakeKeeper) Close() error { return nil }

func encodeRandomKey(t *testing.T) (string, []byte) {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key), key
}

func TestLoadKeyMaterial(t *testing.T) {
	ctx := context.Background()

	t.Run("plain key and salt", func(t *testing.T) {
		encodedKey, key := encodeRandomKey(t)
		encodedSalt, salt := encodeRandomKey(t)

		material, err := LoadKeyMaterial(ctx, encodedKey, encodedSalt, nil)
		require.NoError(t, err)

		assert.Equal(t, key, material.EncryptionKey)
		assert.Equal(t, salt, material.LookupSalt)
	})

	t.Run("missing key", func(t *testing.T) {
		encodedSalt, _ := encodeRandomKey(t)
		_, err := LoadKeyMaterial(ctx, "", encodedSalt, nil)
		assert.Error(t, err)
	})

	t.Run("missing salt", func(t *testing.T) {
		encodedKey, _ := encodeRandomKey(t)
		_, err := LoadKeyMaterial(ctx, encodedKey, "", nil)
		assert.Error(t, err)
	})

	t.Run("invalid base64 key", func(t *testing.T) {
		encodedSalt, _ := encodeRandomKey(t)
		_, err := LoadKeyMaterial(ctx, "!!!not-base64!!!", encodedSalt, nil)
		assert.Error(t, err)
	})

	t.Run("wrong key size", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString(make([]byte, 16))
		encodedSalt, _ := encodeRandomKey(t)

		_, err := LoadKeyMaterial(ctx, short, encodedSalt, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("key and salt must differ", func(t *testing.T) {
		encoded, _ := encodeRandomKey(t)
		_, err := LoadKeyMaterial(ctx, encoded, encoded, nil)
		assert.Error(t, err)
	})

	t.Run("keeper unwraps the key", func(t *testing.T) {
		_, key := encodeRandomKey(t)
		wrapped := base64.StdEncoding.EncodeToString([]byte("wrapped-key-blob"))
		encodedSalt, _ := encodeRandomKey(t)

		keeper := &fakeKeeper{unwrapped: key}
		material, err := LoadKeyMaterial(ctx, wrapped, encodedSalt, keeper)
		require.NoError(t, err)

		assert.Equal(t, key, material.EncryptionKey)
	})

	t.Run("keeper failure surfaces", func(t *testing.T) {
		wrapped := base64.StdEncoding.EncodeToString([]byte("wrapped-key-blob"))
		encodedSalt, _ := encodeRandomKey(t)

		keeper := &fakeKeeper{err: errors.New("kms unavailable")}
		_, err := LoadKeyMaterial(ctx, wrapped, encodedSalt, keeper)
		assert.Error(t, err)
	})
}

func TestKeyMaterial_Zero(t *testing.T) {
	ctx := context.Background()
	encodedKey, _ := encodeRandomKey(t)
	encodedSalt, _ := encodeRandomKey(t)

	material, err := LoadKeyMaterial(ctx, encodedKey, encodedSalt, nil)
	require.NoError(t, err)

	material.Zero()

	assert.Equal(t, make([]byte, 32), material.EncryptionKey)
	assert.Equal(t, make([]byte, 32), material.LookupSalt)
}
