// Package domain defines the core cryptographic domain models for field
// encryption at rest. Sensitive field values are stored as self-describing
// ciphertext envelopes so that algorithm and key rotation can coexist with
// previously written rows.
package domain

import (
	"encoding/base64"
	"strings"
)

// envelopePrefix marks a serialized envelope. Values lacking the prefix are
// treated as plaintext by the guard and the migration scanner.
const envelopePrefix = "phi:v1"

// envelopeSegments is the number of colon-separated segments in a serialized
// envelope: prefix ("phi", "v1"), algorithm, nonce, ciphertext.
const envelopeSegments = 5

// Envelope is the ciphertext container for an encrypted field value.
// The ciphertext carries the AEAD authentication tag appended by Seal.
type Envelope struct {
	Algorithm  Algorithm // AEAD used to produce the ciphertext
	Nonce      []byte    // unique per encryption, 12 bytes
	Ciphertext []byte    // AEAD output including the 16-byte tag
}

// Encode serializes the envelope as "phi:v1:<algorithm>:<b64 nonce>:<b64 ciphertext>".
func (e *Envelope) Encode() string {
	var b strings.Builder
	b.WriteString(envelopePrefix)
	b.WriteByte(':')
	b.WriteString(string(e.Algorithm))
	b.WriteByte(':')
	b.WriteString(base64.StdEncoding.EncodeToString(e.Nonce))
	b.WriteByte(':')
	b.WriteString(base64.StdEncoding.EncodeToString(e.Ciphertext))
	return b.String()
}

// ParseEnvelope deserializes an encoded envelope. It returns
// ErrMalformedEnvelope for any value that does not follow the framing,
// including unknown algorithms and invalid base64 segments.
func ParseEnvelope(s string) (*Envelope, error) {
	if !strings.HasPrefix(s, envelopePrefix+":") {
		return nil, ErrMalformedEnvelope
	}

	parts := strings.Split(s, ":")
	if len(parts) != envelopeSegments {
		return nil, ErrMalformedEnvelope
	}

	alg, err := ParseAlgorithm(parts[2])
	if err != nil {
		return nil, ErrMalformedEnvelope
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, ErrMalformedEnvelope
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, ErrMalformedEnvelope
	}

	return &Envelope{Algorithm: alg, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// IsEncoded reports whether a stored value carries valid envelope framing.
// This is the structural "looks encrypted" check used by the field guard
// before a write is allowed to commit and by the migration scanner to detect
// plaintext-in-place.
func IsEncoded(s string) bool {
	_, err := ParseEnvelope(s)
	return err == nil
}
