package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

type migrationTestDeps struct {
	useCase    MigrationUseCase
	recordRepo *fakeRecordRepository
	codec      cryptoService.FieldCodec
	hasher     cryptoService.LookupHasher
}

func newTestMigrationUseCase(t *testing.T) migrationTestDeps {
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
	recordRepo := newFakeRecordRepository()

	return migrationTestDeps{
		useCase:    NewMigrationUseCase(passthroughTxManager{}, recordRepo, codec, hasher, logger),
		recordRepo: recordRepo,
		codec:      codec,
		hasher:     hasher,
	}
}

// seedRecord stores a record with the given sealed-column contents directly,
// simulating rows written before encryption was enforced.
func seedRecord(t *testing.T, recordRepo *fakeRecordRepository, tenantID uuid.UUID, nationalID, phone string) *recordsDomain.Record {
	t.Helper()
	now := time.Now().UTC()
	record := &recordsDomain.Record{
		ID:               uuid.Must(uuid.NewV7()),
		TenantID:         tenantID,
		FullName:         "Maria da Silva",
		SealedNationalID: nationalID,
		SealedPhone:      phone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, recordRepo.Create(context.Background(), scope.Unscoped("test setup"), record))
	return record
}

func TestMigrationUseCase_ScanAndMigrate(t *testing.T) {
	ctx := context.Background()
	drain := scope.Unscoped("test inspection")

	t.Run("plaintext columns are encrypted in place", func(t *testing.T) {
		deps := newTestMigrationUseCase(t)
		tenantID := uuid.Must(uuid.NewV7())
		legacy := seedRecord(t, deps.recordRepo, tenantID, "52998224725", "+55 11 98765-4321")

		report, err := deps.useCase.ScanAndMigrate(ctx, 10, false)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Scanned)
		assert.Equal(t, 1, report.Migrated)
		assert.Empty(t, report.Issues)

		stored, err := deps.recordRepo.Get(ctx, drain, legacy.ID)
		require.NoError(t, err)
		assert.True(t, cryptoDomain.IsEncoded(stored.SealedNationalID))
		assert.True(t, cryptoDomain.IsEncoded(stored.SealedPhone))
		assert.Equal(t, deps.hasher.Hash("52998224725"), stored.NationalIDHash)

		plaintext, err := deps.codec.DecryptString(ctx, stored.SealedNationalID)
		require.NoError(t, err)
		assert.Equal(t, "52998224725", plaintext)
	})

	t.Run("dry run counts without writing", func(t *testing.T) {
		deps := newTestMigrationUseCase(t)
		tenantID := uuid.Must(uuid.NewV7())
		legacy := seedRecord(t, deps.recordRepo, tenantID, "52998224725", "")

		report, err := deps.useCase.ScanAndMigrate(ctx, 10, true)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Scanned)
		assert.Equal(t, 1, report.Migrated)

		stored, err := deps.recordRepo.Get(ctx, drain, legacy.ID)
		require.NoError(t, err)
		assert.Equal(t, "52998224725", stored.SealedNationalID)
		assert.Empty(t, stored.NationalIDHash)
	})

	t.Run("already sealed records are skipped", func(t *testing.T) {
		deps := newTestMigrationUseCase(t)
		tenantID := uuid.Must(uuid.NewV7())

		sealed, err := deps.codec.EncryptString(ctx, "52998224725")
		require.NoError(t, err)
		migrated := seedRecord(t, deps.recordRepo, tenantID, sealed, "")

		report, err := deps.useCase.ScanAndMigrate(ctx, 10, false)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Scanned)
		assert.Equal(t, 0, report.Migrated)

		stored, err := deps.recordRepo.Get(ctx, drain, migrated.ID)
		require.NoError(t, err)
		assert.Equal(t, sealed, stored.SealedNationalID)
	})

	t.Run("a second run is a no-op", func(t *testing.T) {
		deps := newTestMigrationUseCase(t)
		tenantID := uuid.Must(uuid.NewV7())
		seedRecord(t, deps.recordRepo, tenantID, "52998224725", "+55 11 98765-4321")

		first, err := deps.useCase.ScanAndMigrate(ctx, 10, false)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Migrated)

		second, err := deps.useCase.ScanAndMigrate(ctx, 10, false)
		require.NoError(t, err)
		assert.Equal(t, 1, second.Scanned)
		assert.Equal(t, 0, second.Migrated)
	})

	t.Run("walks all tenants in batches", func(t *testing.T) {
		deps := newTestMigrationUseCase(t)
		for i := 0; i < 5; i++ {
			seedRecord(t, deps.recordRepo, uuid.Must(uuid.NewV7()), "52998224725", "")
		}

		report, err := deps.useCase.ScanAndMigrate(ctx, 2, false)
		require.NoError(t, err)

		assert.Equal(t, 5, report.Scanned)
		assert.Equal(t, 5, report.Migrated)
	})

	t.Run("empty sealed columns are not issues", func(t *testing.T) {
		deps := newTestMigrationUseCase(t)
		seedRecord(t, deps.recordRepo, uuid.Must(uuid.NewV7()), "52998224725", "")

		report, err := deps.useCase.ScanAndMigrate(ctx, 10, false)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Migrated)
		assert.Empty(t, report.Issues)
	})
}
