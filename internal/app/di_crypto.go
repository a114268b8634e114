package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap the field encryption key.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// FieldCodec returns the field codec used to encrypt and decrypt sensitive
// field values.
func (c *Container) FieldCodec() (cryptoService.FieldCodec, error) {
	if err := c.ensureCryptoServices(); err != nil {
		return nil, err
	}
	return c.fieldCodec, nil
}

// LookupHasher returns the keyed hasher used to derive deterministic lookup
// digests for searchable sensitive fields.
func (c *Container) LookupHasher() (cryptoService.LookupHasher, error) {
	if err := c.ensureCryptoServices(); err != nil {
		return nil, err
	}
	return c.hasher, nil
}

// ensureCryptoServices loads the key material and builds the field codec and
// lookup hasher in one step. The decoded key and salt are zeroed as soon as
// both services hold their derived state.
func (c *Container) ensureCryptoServices() error {
	var err error
	c.cryptoInit.Do(func() {
		err = c.initCryptoServices()
		if err != nil {
			c.initErrors["cryptoServices"] = err
		}
	})
	if err != nil {
		return err
	}
	if storedErr, exists := c.initErrors["cryptoServices"]; exists {
		return storedErr
	}
	return nil
}

func (c *Container) initCryptoServices() error {
	ctx := context.Background()

	var keeper cryptoService.KMSKeeper
	if c.config.KMSProvider != "" {
		opened, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open kms keeper: %w", err)
		}
		keeper = opened
	}

	keyMaterial, err := cryptoService.LoadKeyMaterial(
		ctx,
		c.config.FieldEncryptionKey,
		c.config.LookupHashSalt,
		keeper,
	)
	if err != nil {
		return fmt.Errorf("failed to load key material: %w", err)
	}
	defer keyMaterial.Zero()

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.FieldEncryptionAlgorithm)
	if err != nil {
		return fmt.Errorf("failed to parse field encryption algorithm: %w", err)
	}

	codec, err := cryptoService.NewFieldCodec(
		keyMaterial.EncryptionKey,
		algorithm,
		cryptoService.NewAEADManager(),
	)
	if err != nil {
		return fmt.Errorf("failed to create field codec: %w", err)
	}

	hasher, err := cryptoService.NewLookupHasher(keyMaterial.LookupSalt)
	if err != nil {
		return fmt.Errorf("failed to create lookup hasher: %w", err)
	}

	c.fieldCodec = codec
	c.hasher = hasher
	return nil
}
