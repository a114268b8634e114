package domain

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_Encode(t *testing.T) {
	envelope := &Envelope{
		Algorithm:  AESGCM,
		Nonce:      []byte("123456789012"),
		Ciphertext: []byte("ciphertext-with-tag"),
	}

	encoded := envelope.Encode()

	assert.Equal(t,
		"phi:v1:aes-gcm:"+
			base64.StdEncoding.EncodeToString(envelope.Nonce)+":"+
			base64.StdEncoding.EncodeToString(envelope.Ciphertext),
		encoded,
	)
}

func TestParseEnvelope(t *testing.T) {
	t.Run("round-trip", func(t *testing.T) {
		original := &Envelope{
			Algorithm:  ChaCha20,
			Nonce:      []byte("123456789012"),
			Ciphertext: []byte("some ciphertext"),
		}

		parsed, err := ParseEnvelope(original.Encode())
		require.NoError(t, err)

		assert.Equal(t, original.Algorithm, parsed.Algorithm)
		assert.Equal(t, original.Nonce, parsed.Nonce)
		assert.Equal(t, original.Ciphertext, parsed.Ciphertext)
	})

	t.Run("missing prefix", func(t *testing.T) {
		_, err := ParseEnvelope("529.982.247-25")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("wrong segment count", func(t *testing.T) {
		_, err := ParseEnvelope("phi:v1:aes-gcm:only-three")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := ParseEnvelope("phi:v1:des:AAAA:AAAA")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("invalid base64 nonce", func(t *testing.T) {
		_, err := ParseEnvelope("phi:v1:aes-gcm:!!!!:AAAA")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("invalid base64 ciphertext", func(t *testing.T) {
		_, err := ParseEnvelope("phi:v1:aes-gcm:AAAA:!!!!")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})
}

func TestIsEncoded(t *testing.T) {
	envelope := &Envelope{
		Algorithm:  AESGCM,
		Nonce:      []byte("123456789012"),
		Ciphertext: []byte("ciphertext"),
	}

	assert.True(t, IsEncoded(envelope.Encode()))
	assert.False(t, IsEncoded("Maria Souza"))
	assert.False(t, IsEncoded(""))
	assert.False(t, IsEncoded("phi:v1:"))
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("des")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
