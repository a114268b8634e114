package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	"github.com/allisson/phiguard/internal/database"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// migrationUseCase implements MigrationUseCase: a batch scanner that detects
// plaintext left in sealed columns (absence of envelope framing), encrypts it
// in place, and verifies the round-trip before committing. One transaction
// per record, so an interrupted run leaves no partially-migrated record and
// the next invocation resumes by skipping everything already enveloped.
type migrationUseCase struct {
	txManager  database.TxManager
	recordRepo RecordRepository
	codec      cryptoService.FieldCodec
	hasher     cryptoService.LookupHasher
	logger     *slog.Logger
}

// migrationScopeReason is the audited justification for the unscoped walk.
const migrationScopeReason = "scan-encrypt migration over all tenants"

// ScanAndMigrate walks all records in id order. With dryRun it only counts
// plaintext hits and performs zero writes. Per-record failures are collected
// as issues without aborting the batch; callers exit non-zero when issues
// remain.
func (u *migrationUseCase) ScanAndMigrate(
	ctx context.Context,
	batchSize int,
	dryRun bool,
) (*MigrationReport, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	sc := scope.Unscoped(migrationScopeReason)
	report := &MigrationReport{}
	after := uuid.Nil

	for {
		batch, err := u.recordRepo.ListAfter(ctx, sc, after, batchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		for _, record := range batch {
			report.Scanned++
			after = record.ID

			plaintextFields := plaintextFields(record)
			if len(plaintextFields) == 0 {
				continue
			}

			if dryRun {
				report.Migrated++
				u.logger.Info("plaintext detected (dry run)",
					slog.String("record_id", record.ID.String()),
					slog.Int("fields", len(plaintextFields)),
				)
				continue
			}

			if issue := u.migrateRecord(ctx, sc, record, plaintextFields); issue != nil {
				report.Issues = append(report.Issues, *issue)
				continue
			}
			report.Migrated++
		}
	}

	return report, nil
}

// migrateRecord encrypts the plaintext fields of one record inside its own
// transaction. The round-trip of every new envelope is verified before the
// commit; any failure rolls back just this record.
func (u *migrationUseCase) migrateRecord(
	ctx context.Context,
	sc scope.Scope,
	record *recordsDomain.Record,
	fields map[string]string,
) *MigrationIssue {
	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		values := make(map[string]string, len(fields))
		hashes := make(map[string]string)
		fieldSet := recordsDomain.FieldSet()

		for name, plaintext := range fields {
			sealed, err := u.codec.EncryptString(txCtx, plaintext)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			// Verify decrypt(encrypt(x)) == x before trusting the envelope.
			restored, err := u.codec.DecryptString(txCtx, sealed)
			if err != nil {
				return fmt.Errorf("%s: round-trip verification: %w", name, err)
			}
			if restored != plaintext {
				return fmt.Errorf("%s: round-trip mismatch", name)
			}

			values[name] = sealed
			if fieldSet.SupportsLookup(name) {
				hashes[name] = u.hasher.Hash(plaintext)
			}
		}

		record.ApplySeal(values, hashes)
		record.UpdatedAt = time.Now().UTC()

		return u.recordRepo.UpdateSealed(txCtx, sc, record)
	})
	if err != nil {
		u.logger.Error("failed to migrate record",
			slog.String("record_id", record.ID.String()),
			slog.Any("error", err),
		)
		return &MigrationIssue{RecordID: record.ID, Reason: err.Error()}
	}

	return nil
}

// plaintextFields returns the sealed columns that lack envelope framing,
// keyed by field name with their current (plaintext) content.
func plaintextFields(record *recordsDomain.Record) map[string]string {
	fields := make(map[string]string)
	for name, value := range record.SealedFields() {
		if value == "" {
			continue
		}
		if !cryptoDomain.IsEncoded(value) {
			fields[name] = value
		}
	}
	return fields
}

// NewMigrationUseCase creates a new migration use case instance.
func NewMigrationUseCase(
	txManager database.TxManager,
	recordRepo RecordRepository,
	codec cryptoService.FieldCodec,
	hasher cryptoService.LookupHasher,
	logger *slog.Logger,
) MigrationUseCase {
	return &migrationUseCase{
		txManager:  txManager,
		recordRepo: recordRepo,
		codec:      codec,
		hasher:     hasher,
		logger:     logger,
	}
}
