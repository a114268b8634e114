package guard

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	phiDomain "github.com/allisson/phiguard/internal/phi/domain"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
)

// captureSink records every emitted audit record for assertions.
type captureSink struct {
	mu      sync.Mutex
	records []*auditDomain.Record
}

func (c *captureSink) Emit(_ context.Context, record *auditDomain.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
	return nil
}

func (c *captureSink) last() *auditDomain.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) == 0 {
		return nil
	}
	return c.records[len(c.records)-1]
}

func newTestGuard(t *testing.T, sink *captureSink) (*FieldGuard, cryptoService.FieldCodec) {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	salt := make([]byte, 32)
	_, err = rand.Read(salt)
	require.NoError(t, err)

	codec, err := cryptoService.NewFieldCodec(key, cryptoDomain.AESGCM, cryptoService.NewAEADManager())
	require.NoError(t, err)

	hasher, err := cryptoService.NewLookupHasher(salt)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	guard := NewFieldGuard(
		recordsDomain.FieldSet(),
		codec,
		hasher,
		sink,
		[]string{"staff", "admin"},
		5*time.Second,
		logger,
	)
	return guard, codec
}

func staffActor() authDomain.Actor {
	return authDomain.Actor{
		ClientID: uuid.Must(uuid.NewV7()),
		TenantID: uuid.Must(uuid.NewV7()),
		Role:     "staff",
	}
}

func TestFieldGuard_Seal(t *testing.T) {
	ctx := context.Background()

	t.Run("plaintext values are sealed and hashed", func(t *testing.T) {
		sink := &captureSink{}
		guard, codec := newTestGuard(t, sink)
		actor := staffActor()
		entityID := uuid.Must(uuid.NewV7())

		result, err := guard.Seal(ctx, "create", entityID, actor.TenantID, actor, map[string]string{
			recordsDomain.FieldNationalID: "52998224725",
			recordsDomain.FieldPhone:      "+55 11 98765-4321",
		})
		require.NoError(t, err)

		assert.True(t, cryptoDomain.IsEncoded(result.Values[recordsDomain.FieldNationalID]))
		assert.True(t, cryptoDomain.IsEncoded(result.Values[recordsDomain.FieldPhone]))

		// Only the lookup-capable field gets a hash.
		assert.Contains(t, result.Hashes, recordsDomain.FieldNationalID)
		assert.NotContains(t, result.Hashes, recordsDomain.FieldPhone)

		plaintext, err := codec.DecryptString(ctx, result.Values[recordsDomain.FieldNationalID])
		require.NoError(t, err)
		assert.Equal(t, "52998224725", plaintext)

		audit := sink.last()
		require.NotNil(t, audit)
		assert.Equal(t, auditDomain.DecisionAllowed, audit.Decision)
		assert.Equal(t, "create", audit.Operation)
		assert.Equal(t, actor.TenantID, audit.TenantID)
	})

	t.Run("already sealed envelopes pass through unchanged", func(t *testing.T) {
		sink := &captureSink{}
		guard, codec := newTestGuard(t, sink)
		actor := staffActor()

		existing, err := codec.EncryptString(ctx, "52998224725")
		require.NoError(t, err)

		result, err := guard.Seal(ctx, "update", uuid.Must(uuid.NewV7()), actor.TenantID, actor, map[string]string{
			recordsDomain.FieldNationalID: existing,
		})
		require.NoError(t, err)

		assert.Equal(t, existing, result.Values[recordsDomain.FieldNationalID])
		// No re-encryption means no new hash either.
		assert.NotContains(t, result.Hashes, recordsDomain.FieldNationalID)
	})

	t.Run("unknown field rejects the whole write", func(t *testing.T) {
		sink := &captureSink{}
		guard, _ := newTestGuard(t, sink)
		actor := staffActor()

		result, err := guard.Seal(ctx, "create", uuid.Must(uuid.NewV7()), actor.TenantID, actor, map[string]string{
			recordsDomain.FieldNationalID: "52998224725",
			"nickname":                    "not a declared field",
		})
		assert.ErrorIs(t, err, phiDomain.ErrPlaintextDetected)
		assert.Nil(t, result)

		audit := sink.last()
		require.NotNil(t, audit)
		assert.Equal(t, auditDomain.DecisionDenied, audit.Decision)
	})
}

func TestFieldGuard_Disclose(t *testing.T) {
	ctx := context.Background()

	t.Run("allow-listed role receives plaintext", func(t *testing.T) {
		sink := &captureSink{}
		guard, codec := newTestGuard(t, sink)
		actor := staffActor()

		sealed, err := codec.EncryptString(ctx, "52998224725")
		require.NoError(t, err)

		values, redacted, err := guard.Disclose(ctx, uuid.Must(uuid.NewV7()), actor.TenantID, actor, map[string]string{
			recordsDomain.FieldNationalID: sealed,
		})
		require.NoError(t, err)

		assert.False(t, redacted)
		assert.Equal(t, "52998224725", values[recordsDomain.FieldNationalID])
		assert.Equal(t, auditDomain.DecisionAllowed, sink.last().Decision)
	})

	t.Run("non-allowed role gets redaction, not an error", func(t *testing.T) {
		sink := &captureSink{}
		guard, codec := newTestGuard(t, sink)
		actor := staffActor()
		actor.Role = "service"

		sealed, err := codec.EncryptString(ctx, "52998224725")
		require.NoError(t, err)

		values, redacted, err := guard.Disclose(ctx, uuid.Must(uuid.NewV7()), actor.TenantID, actor, map[string]string{
			recordsDomain.FieldNationalID: sealed,
		})
		require.NoError(t, err)

		assert.True(t, redacted)
		assert.Nil(t, values)

		audit := sink.last()
		require.NotNil(t, audit)
		assert.Equal(t, auditDomain.DecisionDenied, audit.Decision)
		assert.Equal(t, "disclose", audit.Operation)
	})

	t.Run("corrupt envelope surfaces the integrity error", func(t *testing.T) {
		sink := &captureSink{}
		guard, _ := newTestGuard(t, sink)
		actor := staffActor()

		values, redacted, err := guard.Disclose(ctx, uuid.Must(uuid.NewV7()), actor.TenantID, actor, map[string]string{
			recordsDomain.FieldNationalID: "phi:v1:aes-gcm:AAAAAAAAAAAAAAAA:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
		})
		assert.Error(t, err)
		assert.False(t, redacted)
		assert.Nil(t, values)
		assert.Equal(t, auditDomain.DecisionDenied, sink.last().Decision)
	})
}
