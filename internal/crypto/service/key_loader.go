package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// KeyMaterial holds the decoded field encryption key and lookup hash salt.
// Both slices must be zeroed once the codec and hasher are constructed.
type KeyMaterial struct {
	EncryptionKey []byte
	LookupSalt    []byte
}

// Zero clears the key material from memory.
func (k *KeyMaterial) Zero() {
	cryptoDomain.Zero(k.EncryptionKey)
	cryptoDomain.Zero(k.LookupSalt)
}

// LoadKeyMaterial decodes the configured key and salt, unwrapping the
// encryption key through the KMS keeper when one is provided. It rejects
// key/salt reuse: deriving lookup hashes from the encryption key would let a
// ciphertext compromise also break the lookup column.
func LoadKeyMaterial(
	ctx context.Context,
	encodedKey, encodedSalt string,
	keeper KMSKeeper,
) (*KeyMaterial, error) {
	if encodedKey == "" {
		return nil, fmt.Errorf("field encryption key is not configured")
	}
	if encodedSalt == "" {
		return nil, fmt.Errorf("lookup hash salt is not configured")
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode field encryption key: %w", err)
	}

	if keeper != nil {
		unwrapped, err := keeper.Decrypt(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap field encryption key: %w", err)
		}
		cryptoDomain.Zero(key)
		key = unwrapped
	}

	if len(key) != 32 {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	salt, err := base64.StdEncoding.DecodeString(encodedSalt)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to decode lookup hash salt: %w", err)
	}

	if len(salt) != 32 {
		cryptoDomain.Zero(key)
		cryptoDomain.Zero(salt)
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	if bytes.Equal(key, salt) {
		cryptoDomain.Zero(key)
		cryptoDomain.Zero(salt)
		return nil, fmt.Errorf("lookup hash salt must differ from the field encryption key")
	}

	return &KeyMaterial{EncryptionKey: key, LookupSalt: salt}, nil
}
