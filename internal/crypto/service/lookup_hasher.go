package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// hmacLookupHasher implements LookupHasher using HMAC-SHA256 with a key
// derived from the lookup salt via HKDF-SHA256. The digest is deterministic
// for a fixed salt, irreversible, and keyed, so a bare rainbow table over the
// plaintext space is useless without the salt secret.
type hmacLookupHasher struct {
	key []byte
}

// lookupHashInfo versions the derivation so a future algorithm change can
// coexist with hashes already stored in lookup columns.
const lookupHashInfo = "phi-lookup-hash-v1"

// NewLookupHasher derives the hashing key from the 32-byte salt secret.
// The salt must be distinct from the field encryption key; reusing key
// material across encryption and hashing is rejected by the caller (app
// container) at startup.
func NewLookupHasher(salt []byte) (LookupHasher, error) {
	if len(salt) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	reader := hkdf.New(sha256.New, salt, nil, []byte(lookupHashInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive lookup hash key: %w", err)
	}

	return &hmacLookupHasher{key: key}, nil
}

// Hash returns the 64-character lowercase hex HMAC-SHA256 digest of the value.
func (h *hmacLookupHasher) Hash(value string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
