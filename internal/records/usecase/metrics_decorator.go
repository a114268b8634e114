package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	"github.com/allisson/phiguard/internal/metrics"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// recordUseCaseWithMetrics decorates RecordUseCase with metrics instrumentation.
type recordUseCaseWithMetrics struct {
	next    RecordUseCase
	metrics metrics.BusinessMetrics
}

// NewRecordUseCaseWithMetrics wraps a RecordUseCase with metrics recording.
func NewRecordUseCaseWithMetrics(useCase RecordUseCase, m metrics.BusinessMetrics) RecordUseCase {
	return &recordUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one operation.
func (r *recordUseCaseWithMetrics) record(ctx context.Context, operation, status string, start time.Time) {
	r.metrics.RecordOperation(ctx, "records", operation, status)
	r.metrics.RecordDuration(ctx, "records", operation, time.Since(start), status)
}

// Create records metrics for record creation operations.
func (r *recordUseCaseWithMetrics) Create(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	input CreateRecordInput,
) (*recordsDomain.Record, error) {
	start := time.Now()
	record, err := r.next.Create(ctx, sc, actor, input)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.record(ctx, "record_create", status, start)

	return record, err
}

// Get records metrics for disclosure reads, distinguishing redacted outcomes
// from full disclosures.
func (r *recordUseCaseWithMetrics) Get(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	id uuid.UUID,
) (*DisclosedRecord, error) {
	start := time.Now()
	disclosed, err := r.next.Get(ctx, sc, actor, id)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case disclosed.Redacted:
		status = "redacted"
		r.metrics.RecordDisclosure(ctx, actor.Role, "redacted")
	default:
		r.metrics.RecordDisclosure(ctx, actor.Role, "disclosed")
	}
	r.record(ctx, "record_get", status, start)

	return disclosed, err
}

// FindByNationalID records metrics for lookup-hash searches.
func (r *recordUseCaseWithMetrics) FindByNationalID(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	nationalID string,
) (*DisclosedRecord, error) {
	start := time.Now()
	disclosed, err := r.next.FindByNationalID(ctx, sc, actor, nationalID)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case disclosed.Redacted:
		status = "redacted"
		r.metrics.RecordDisclosure(ctx, actor.Role, "redacted")
	default:
		r.metrics.RecordDisclosure(ctx, actor.Role, "disclosed")
	}
	r.record(ctx, "record_find", status, start)

	return disclosed, err
}

// List records metrics for record list operations.
func (r *recordUseCaseWithMetrics) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*recordsDomain.Record, error) {
	start := time.Now()
	records, err := r.next.List(ctx, sc, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.record(ctx, "record_list", status, start)

	return records, err
}

// Update records metrics for record update operations.
func (r *recordUseCaseWithMetrics) Update(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	id uuid.UUID,
	input UpdateRecordInput,
) (*recordsDomain.Record, error) {
	start := time.Now()
	record, err := r.next.Update(ctx, sc, actor, id, input)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.record(ctx, "record_update", status, start)

	return record, err
}

// Delete records metrics for record deletion operations.
func (r *recordUseCaseWithMetrics) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	start := time.Now()
	err := r.next.Delete(ctx, sc, id)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.record(ctx, "record_delete", status, start)

	return err
}

// AttachDocument records metrics for document attachment operations.
func (r *recordUseCaseWithMetrics) AttachDocument(
	ctx context.Context,
	sc scope.Scope,
	actor authDomain.Actor,
	recordID uuid.UUID,
	input AttachDocumentInput,
) (*recordsDomain.Document, error) {
	start := time.Now()
	document, err := r.next.AttachDocument(ctx, sc, actor, recordID, input)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.record(ctx, "document_attach", status, start)

	return document, err
}

// ListDocuments records metrics for document list operations.
func (r *recordUseCaseWithMetrics) ListDocuments(
	ctx context.Context,
	sc scope.Scope,
	recordID uuid.UUID,
) ([]*recordsDomain.Document, error) {
	start := time.Now()
	documents, err := r.next.ListDocuments(ctx, sc, recordID)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.record(ctx, "document_list", status, start)

	return documents, err
}
