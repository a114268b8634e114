package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	"github.com/allisson/phiguard/internal/database"
	"github.com/allisson/phiguard/internal/phi/guard"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// recordUseCase implements RecordUseCase. Guard sealing and the repository
// write share one transaction, so a guard rejection rolls back the entire
// write and no partially-encrypted row is ever observable.
type recordUseCase struct {
	txManager  database.TxManager
	recordRepo RecordRepository
	guard      *guard.FieldGuard
	hasher     LookupHasher
}

// LookupHasher is the subset of the crypto service the use case needs to
// resolve equality searches over encrypted columns.
type LookupHasher interface {
	Hash(value string) string
}

// Create creates a new record stamped with the scope's tenant identity.
func (u *recordUseCase) Create(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	input CreateRecordInput,
) (*recordsDomain.Record, error) {
	// Creation always needs a concrete owner; the bypass carries none.
	if sc.Bypassed() {
		return nil, tenantDomain.ErrMissingTenantIdentity
	}

	now := time.Now().UTC()
	record := &recordsDomain.Record{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  sc.TenantID(),
		FullName:  input.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		seal, err := u.guard.Seal(txCtx, "create", record.ID, record.TenantID, actor, map[string]string{
			recordsDomain.FieldNationalID: input.NationalID,
			recordsDomain.FieldPhone:      input.Phone,
			recordsDomain.FieldAddress:    input.Address,
		})
		if err != nil {
			return err
		}
		record.ApplySeal(seal.Values, seal.Hashes)

		return u.recordRepo.Create(txCtx, sc, record)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Get retrieves a record under the scope and runs the disclosure guard over
// its sealed fields. A foreign-tenant id surfaces as not-found.
func (u *recordUseCase) Get(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	id uuid.UUID,
) (*DisclosedRecord, error) {
	record, err := u.recordRepo.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	return u.disclose(ctx, actor, record)
}

// FindByNationalID resolves a record through the lookup hash without
// decrypting any row, then applies disclosure like Get.
func (u *recordUseCase) FindByNationalID(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	nationalID string,
) (*DisclosedRecord, error) {
	record, err := u.recordRepo.GetByNationalIDHash(ctx, sc, u.hasher.Hash(nationalID))
	if err != nil {
		return nil, err
	}

	return u.disclose(ctx, actor, record)
}

// disclose runs the read-path guard and populates plaintext fields when the
// actor is allow-listed.
func (u *recordUseCase) disclose(
	ctx context.Context,
	actor authDomain.Actor,
	record *recordsDomain.Record,
) (*DisclosedRecord, error) {
	values, redacted, err := u.guard.Disclose(ctx, record.ID, record.TenantID, actor, record.SealedFields())
	if err != nil {
		return nil, err
	}
	if !redacted {
		record.ApplyPlaintext(values)
	}

	return &DisclosedRecord{Record: record, Redacted: redacted}, nil
}

// List retrieves records without disclosing sensitive fields.
func (u *recordUseCase) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*recordsDomain.Record, error) {
	return u.recordRepo.List(ctx, sc, offset, limit)
}

// Update applies a partial update. The tenant identity is immutable: an input
// naming a different tenant aborts before anything is written, for scoped and
// bypassed callers alike.
func (u *recordUseCase) Update(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	id uuid.UUID,
	input UpdateRecordInput,
) (*recordsDomain.Record, error) {
	var updated *recordsDomain.Record

	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := u.recordRepo.Get(txCtx, sc, id)
		if err != nil {
			return err
		}

		if err := tenantDomain.EnsureImmutableIdentity(record.TenantID, input.TenantID); err != nil {
			return err
		}

		if input.FullName != nil {
			record.FullName = *input.FullName
		}

		// Only dirty plaintext goes through the guard; untouched fields keep
		// their stored envelopes.
		dirty := make(map[string]string)
		if input.NationalID != nil {
			dirty[recordsDomain.FieldNationalID] = *input.NationalID
		}
		if input.Phone != nil {
			dirty[recordsDomain.FieldPhone] = *input.Phone
		}
		if input.Address != nil {
			dirty[recordsDomain.FieldAddress] = *input.Address
		}

		if len(dirty) > 0 {
			seal, err := u.guard.Seal(txCtx, "update", record.ID, record.TenantID, actor, dirty)
			if err != nil {
				return err
			}
			record.ApplySeal(seal.Values, seal.Hashes)
		}

		record.UpdatedAt = time.Now().UTC()
		if err := u.recordRepo.Update(txCtx, sc, record); err != nil {
			return err
		}

		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete performs a soft delete under the scope.
func (u *recordUseCase) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	return u.recordRepo.Delete(ctx, sc, id)
}

// AttachDocument creates a document under an existing record. The parent is
// loaded under the caller's scope inside the same transaction as the insert,
// so attaching to a foreign-tenant record fails as not-found instead of
// silently re-assigning ownership.
func (u *recordUseCase) AttachDocument(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	recordID uuid.UUID,
	input AttachDocumentInput,
) (*recordsDomain.Document, error) {
	var document *recordsDomain.Document

	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		parent, err := u.recordRepo.Get(txCtx, sc, recordID)
		if err != nil {
			return err
		}

		document = &recordsDomain.Document{
			ID:          uuid.Must(uuid.NewV7()),
			RecordID:    parent.ID,
			TenantID:    parent.TenantID,
			Filename:    input.Filename,
			ContentType: input.ContentType,
			SizeBytes:   input.SizeBytes,
			CreatedAt:   time.Now().UTC(),
		}

		return u.recordRepo.CreateDocument(txCtx, sc, document)
	})
	if err != nil {
		return nil, err
	}

	return document, nil
}

// ListDocuments retrieves the documents of a record under the scope.
func (u *recordUseCase) ListDocuments(
	ctx context.Context,
	sc scope.Scope,
	recordID uuid.UUID,
) ([]*recordsDomain.Document, error) {
	// Resolve the parent under the scope first so a foreign record id yields
	// not-found instead of an empty list.
	if _, err := u.recordRepo.Get(ctx, sc, recordID); err != nil {
		return nil, err
	}
	return u.recordRepo.ListDocuments(ctx, sc, recordID)
}

// NewRecordUseCase creates a new record use case instance.
func NewRecordUseCase(
	txManager database.TxManager,
	recordRepo RecordRepository,
	fieldGuard *guard.FieldGuard,
	hasher LookupHasher,
) RecordUseCase {
	return &recordUseCase{
		txManager:  txManager,
		recordRepo: recordRepo,
		guard:      fieldGuard,
		hasher:     hasher,
	}
}
