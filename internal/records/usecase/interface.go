// Package usecase implements business logic for guarded patient records:
// creation and updates sealed by the field guard inside one transaction,
// scoped reads with disclosure control, and the scan-and-encrypt migration
// utility.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// RecordRepository defines persistence operations for records. Every method
// requires a scope; tenant filtering is built into the queries, so an id
// outside the scope's tenant matches zero rows and surfaces as ErrNotFound.
type RecordRepository interface {
	Create(ctx context.Context, sc scope.Scope, record *recordsDomain.Record) error
	Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*recordsDomain.Record, error)
	GetByNationalIDHash(ctx context.Context, sc scope.Scope, hash string) (*recordsDomain.Record, error)
	List(ctx context.Context, sc scope.Scope, offset, limit int) ([]*recordsDomain.Record, error)
	// ListAfter pages through records in id order, used by the migration
	// scanner with an unscoped scope.
	ListAfter(ctx context.Context, sc scope.Scope, after uuid.UUID, limit int) ([]*recordsDomain.Record, error)
	// Update persists mutable columns. The tenant identity column is never
	// part of the SET list.
	Update(ctx context.Context, sc scope.Scope, record *recordsDomain.Record) error
	// UpdateSealed persists only the sealed columns and lookup hash; used by
	// the migration utility.
	UpdateSealed(ctx context.Context, sc scope.Scope, record *recordsDomain.Record) error
	Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error

	CreateDocument(ctx context.Context, sc scope.Scope, document *recordsDomain.Document) error
	ListDocuments(ctx context.Context, sc scope.Scope, recordID uuid.UUID) ([]*recordsDomain.Document, error)
}

// CreateRecordInput carries the plaintext input of a new record.
type CreateRecordInput struct {
	FullName   string
	NationalID string
	Phone      string
	Address    string
}

// UpdateRecordInput carries a partial update. Nil fields are left unchanged.
// TenantID, when set to a different tenant than the stored one, is rejected
// with ErrTenantIdentityImmutable.
type UpdateRecordInput struct {
	FullName   *string
	NationalID *string
	Phone      *string
	Address    *string
	TenantID   uuid.UUID
}

// AttachDocumentInput carries a new document for an existing record.
type AttachDocumentInput struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

// DisclosedRecord pairs a record with its disclosure outcome. When Redacted
// is true the in-memory plaintext fields are empty and must be omitted from
// any serialization.
type DisclosedRecord struct {
	Record   *recordsDomain.Record
	Redacted bool
}

// RecordUseCase defines operations on guarded records.
type RecordUseCase interface {
	Create(ctx context.Context, sc scope.Scope, actor authDomain.Actor, input CreateRecordInput) (*recordsDomain.Record, error)
	Get(ctx context.Context, sc scope.Scope, actor authDomain.Actor, id uuid.UUID) (*DisclosedRecord, error)
	FindByNationalID(ctx context.Context, sc scope.Scope, actor authDomain.Actor, nationalID string) (*DisclosedRecord, error)
	List(ctx context.Context, sc scope.Scope, offset, limit int) ([]*recordsDomain.Record, error)
	Update(ctx context.Context, sc scope.Scope, actor authDomain.Actor, id uuid.UUID, input UpdateRecordInput) (*recordsDomain.Record, error)
	Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error
	AttachDocument(ctx context.Context, sc scope.Scope, actor authDomain.Actor, recordID uuid.UUID, input AttachDocumentInput) (*recordsDomain.Document, error)
	ListDocuments(ctx context.Context, sc scope.Scope, recordID uuid.UUID) ([]*recordsDomain.Document, error)
}

// MigrationIssue describes one record the scanner could not migrate.
type MigrationIssue struct {
	RecordID uuid.UUID `json:"record_id"`
	Field    string    `json:"field"`
	Reason   string    `json:"reason"`
}

// MigrationReport summarizes one scan-and-encrypt run.
type MigrationReport struct {
	Scanned  int              `json:"scanned"`
	Migrated int              `json:"migrated"`
	Issues   []MigrationIssue `json:"issues"`
}

// MigrationUseCase defines the batch plaintext detection and re-encryption
// utility. Not request-path code.
type MigrationUseCase interface {
	ScanAndMigrate(ctx context.Context, batchSize int, dryRun bool) (*MigrationReport, error)
}
