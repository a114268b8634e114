package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

func TestNewLookupHasher(t *testing.T) {
	t.Run("valid salt", func(t *testing.T) {
		salt := make([]byte, 32)
		_, err := rand.Read(salt)
		require.NoError(t, err)

		hasher, err := NewLookupHasher(salt)
		assert.NoError(t, err)
		assert.NotNil(t, hasher)
	})

	t.Run("invalid salt size", func(t *testing.T) {
		hasher, err := NewLookupHasher(make([]byte, 16))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		assert.Nil(t, hasher)
	})
}

func TestLookupHasher_Hash(t *testing.T) {
	salt := make([]byte, 32)
	_, err := rand.Read(salt)
	require.NoError(t, err)

	hasher, err := NewLookupHasher(salt)
	require.NoError(t, err)

	t.Run("deterministic for the same value", func(t *testing.T) {
		first := hasher.Hash("52998224725")
		second := hasher.Hash("52998224725")
		assert.Equal(t, first, second)
	})

	t.Run("64-character lowercase hex", func(t *testing.T) {
		digest := hasher.Hash("52998224725")
		assert.Len(t, digest, 64)
		assert.Regexp(t, "^[0-9a-f]{64}$", digest)
	})

	t.Run("different values produce different digests", func(t *testing.T) {
		assert.NotEqual(t, hasher.Hash("52998224725"), hasher.Hash("52998224726"))
	})

	t.Run("different salts produce different digests", func(t *testing.T) {
		otherSalt := make([]byte, 32)
		_, err := rand.Read(otherSalt)
		require.NoError(t, err)

		other, err := NewLookupHasher(otherSalt)
		require.NoError(t, err)

		assert.NotEqual(t, hasher.Hash("52998224725"), other.Hash("52998224725"))
	})
}
