// Package repository implements record persistence for PostgreSQL and MySQL.
// Every query takes a tenant scope; the tenant predicate is appended at query
// construction, so a cross-tenant id matches zero rows and reads surface as
// not-found. The tenant identity column never appears in an UPDATE SET list.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// PostgreSQLRecordRepository implements record persistence for PostgreSQL databases.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

const pgRecordColumns = `id, tenant_id, full_name, sealed_national_id, sealed_phone,
			  sealed_address, national_id_hash, created_at, updated_at, deleted_at`

// scanRecord scans one row into a record.
func scanRecord(row interface{ Scan(dest ...any) error }) (*recordsDomain.Record, error) {
	var record recordsDomain.Record
	err := row.Scan(
		&record.ID,
		&record.TenantID,
		&record.FullName,
		&record.SealedNationalID,
		&record.SealedPhone,
		&record.SealedAddress,
		&record.NationalIDHash,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new record stamped with its tenant identity.
func (p *PostgreSQLRecordRepository) Create(
	ctx context.Context,
	sc scope.Scope,
	record *recordsDomain.Record,
) error {
	querier := database.GetTx(ctx, p.db)

	// Creation under a tenant scope only ever stamps that scope's tenant.
	if !sc.Bypassed() && record.TenantID != sc.TenantID() {
		return apperrors.ErrNotFound
	}

	query := `INSERT INTO records
			  (id, tenant_id, full_name, sealed_national_id, sealed_phone,
			   sealed_address, national_id_hash, created_at, updated_at, deleted_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.TenantID,
		record.FullName,
		record.SealedNationalID,
		record.SealedPhone,
		record.SealedAddress,
		record.NationalIDHash,
		record.CreatedAt,
		record.UpdatedAt,
		record.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// Get retrieves a non-deleted record by id under the scope.
func (p *PostgreSQLRecordRepository) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(
		`SELECT %s FROM records WHERE id = $1 AND deleted_at IS NULL`,
		pgRecordColumns,
	)
	args := []any{id}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $2`
		args = append(args, sc.TenantID())
	}

	record, err := scanRecord(querier.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}

	return record, nil
}

// GetByNationalIDHash resolves a record through its lookup-hash column.
func (p *PostgreSQLRecordRepository) GetByNationalIDHash(
	ctx context.Context,
	sc scope.Scope,
	hash string,
) (*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(
		`SELECT %s FROM records WHERE national_id_hash = $1 AND deleted_at IS NULL`,
		pgRecordColumns,
	)
	args := []any{hash}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $2`
		args = append(args, sc.TenantID())
	}
	query += ` LIMIT 1`

	record, err := scanRecord(querier.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record by national id hash")
	}

	return record, nil
}

// List retrieves non-deleted records ordered by id with pagination.
func (p *PostgreSQLRecordRepository) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(`SELECT %s FROM records WHERE deleted_at IS NULL`, pgRecordColumns)
	args := []any{}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $1`
		args = append(args, sc.TenantID())
	}
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return p.queryRecords(ctx, querier, query, args...)
}

// ListAfter pages through records in id order, including soft-deleted rows so
// the migration scanner covers everything at rest.
func (p *PostgreSQLRecordRepository) ListAfter(
	ctx context.Context,
	sc scope.Scope,
	after uuid.UUID,
	limit int,
) ([]*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(`SELECT %s FROM records WHERE id > $1`, pgRecordColumns)
	args := []any{after}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $2`
		args = append(args, sc.TenantID())
	}
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return p.queryRecords(ctx, querier, query, args...)
}

func (p *PostgreSQLRecordRepository) queryRecords(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...any,
) ([]*recordsDomain.Record, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer func() { _ = rows.Close() }()

	var records []*recordsDomain.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate records")
	}

	return records, nil
}

// Update persists the mutable columns of a record. tenant_id is not part of
// the SET list. Zero matched rows surface as not-found.
func (p *PostgreSQLRecordRepository) Update(
	ctx context.Context,
	sc scope.Scope,
	record *recordsDomain.Record,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE records
			  SET full_name = $1, sealed_national_id = $2, sealed_phone = $3,
			      sealed_address = $4, national_id_hash = $5, updated_at = $6
			  WHERE id = $7 AND deleted_at IS NULL`
	args := []any{
		record.FullName,
		record.SealedNationalID,
		record.SealedPhone,
		record.SealedAddress,
		record.NationalIDHash,
		record.UpdatedAt,
		record.ID,
	}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $8`
		args = append(args, sc.TenantID())
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record")
	}

	return requireAffected(result)
}

// UpdateSealed persists only the sealed columns and lookup hash.
func (p *PostgreSQLRecordRepository) UpdateSealed(
	ctx context.Context,
	sc scope.Scope,
	record *recordsDomain.Record,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE records
			  SET sealed_national_id = $1, sealed_phone = $2, sealed_address = $3,
			      national_id_hash = $4, updated_at = $5
			  WHERE id = $6`
	args := []any{
		record.SealedNationalID,
		record.SealedPhone,
		record.SealedAddress,
		record.NationalIDHash,
		record.UpdatedAt,
		record.ID,
	}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $7`
		args = append(args, sc.TenantID())
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update sealed fields")
	}

	return requireAffected(result)
}

// Delete performs a soft delete on a record under the scope.
func (p *PostgreSQLRecordRepository) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE records SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	args := []any{time.Now().UTC(), id}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $3`
		args = append(args, sc.TenantID())
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete record")
	}

	return requireAffected(result)
}

// CreateDocument inserts a document row.
func (p *PostgreSQLRecordRepository) CreateDocument(
	ctx context.Context,
	sc scope.Scope,
	document *recordsDomain.Document,
) error {
	querier := database.GetTx(ctx, p.db)

	if !sc.Bypassed() && document.TenantID != sc.TenantID() {
		return apperrors.ErrNotFound
	}

	query := `INSERT INTO record_documents
			  (id, record_id, tenant_id, filename, content_type, size_bytes, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		document.ID,
		document.RecordID,
		document.TenantID,
		document.Filename,
		document.ContentType,
		document.SizeBytes,
		document.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create document")
	}
	return nil
}

// ListDocuments retrieves the documents of a record under the scope.
func (p *PostgreSQLRecordRepository) ListDocuments(
	ctx context.Context,
	sc scope.Scope,
	recordID uuid.UUID,
) ([]*recordsDomain.Document, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, record_id, tenant_id, filename, content_type, size_bytes, created_at
			  FROM record_documents WHERE record_id = $1`
	args := []any{recordID}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $2`
		args = append(args, sc.TenantID())
	}
	query += ` ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list documents")
	}
	defer func() { _ = rows.Close() }()

	var documents []*recordsDomain.Document
	for rows.Next() {
		var document recordsDomain.Document
		err := rows.Scan(
			&document.ID,
			&document.RecordID,
			&document.TenantID,
			&document.Filename,
			&document.ContentType,
			&document.SizeBytes,
			&document.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan document")
		}
		documents = append(documents, &document)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate documents")
	}

	return documents, nil
}

// requireAffected maps a zero-row update to not-found so cross-tenant writes
// are indistinguishable from missing records.
func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL record repository instance.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}
