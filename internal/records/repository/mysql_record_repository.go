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

// MySQLRecordRepository implements record persistence for MySQL databases.
type MySQLRecordRepository struct {
	db *sql.DB
}

const mysqlRecordColumns = `id, tenant_id, full_name, sealed_national_id, sealed_phone,
			  sealed_address, national_id_hash, created_at, updated_at, deleted_at`

// Create inserts a new record stamped with its tenant identity.
func (m *MySQLRecordRepository) Create(
	ctx context.Context,
	sc scope.Scope,
	record *recordsDomain.Record,
) error {
	querier := database.GetTx(ctx, m.db)

	if !sc.Bypassed() && record.TenantID != sc.TenantID() {
		return apperrors.ErrNotFound
	}

	query := `INSERT INTO records
			  (id, tenant_id, full_name, sealed_national_id, sealed_phone,
			   sealed_address, national_id_hash, created_at, updated_at, deleted_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

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
func (m *MySQLRecordRepository) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(
		`SELECT %s FROM records WHERE id = ? AND deleted_at IS NULL`,
		mysqlRecordColumns,
	)
	args := []any{id}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
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
func (m *MySQLRecordRepository) GetByNationalIDHash(
	ctx context.Context,
	sc scope.Scope,
	hash string,
) (*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(
		`SELECT %s FROM records WHERE national_id_hash = ? AND deleted_at IS NULL`,
		mysqlRecordColumns,
	)
	args := []any{hash}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
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
func (m *MySQLRecordRepository) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(`SELECT %s FROM records WHERE deleted_at IS NULL`, mysqlRecordColumns)
	args := []any{}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
		args = append(args, sc.TenantID())
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return m.queryRecords(ctx, querier, query, args...)
}

// ListAfter pages through records in id order, including soft-deleted rows so
// the migration scanner covers everything at rest.
func (m *MySQLRecordRepository) ListAfter(
	ctx context.Context,
	sc scope.Scope,
	after uuid.UUID,
	limit int,
) ([]*recordsDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(`SELECT %s FROM records WHERE id > ?`, mysqlRecordColumns)
	args := []any{after}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
		args = append(args, sc.TenantID())
	}
	query += ` ORDER BY id LIMIT ?`
	args = append(args, limit)

	return m.queryRecords(ctx, querier, query, args...)
}

func (m *MySQLRecordRepository) queryRecords(
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
func (m *MySQLRecordRepository) Update(
	ctx context.Context,
	sc scope.Scope,
	record *recordsDomain.Record,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE records
			  SET full_name = ?, sealed_national_id = ?, sealed_phone = ?,
			      sealed_address = ?, national_id_hash = ?, updated_at = ?
			  WHERE id = ? AND deleted_at IS NULL`
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
		query += ` AND tenant_id = ?`
		args = append(args, sc.TenantID())
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record")
	}

	return requireAffected(result)
}

// UpdateSealed persists only the sealed columns and lookup hash.
func (m *MySQLRecordRepository) UpdateSealed(
	ctx context.Context,
	sc scope.Scope,
	record *recordsDomain.Record,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE records
			  SET sealed_national_id = ?, sealed_phone = ?, sealed_address = ?,
			      national_id_hash = ?, updated_at = ?
			  WHERE id = ?`
	args := []any{
		record.SealedNationalID,
		record.SealedPhone,
		record.SealedAddress,
		record.NationalIDHash,
		record.UpdatedAt,
		record.ID,
	}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
		args = append(args, sc.TenantID())
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update sealed fields")
	}

	return requireAffected(result)
}

// Delete performs a soft delete on a record under the scope.
func (m *MySQLRecordRepository) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE records SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`
	args := []any{time.Now().UTC(), id}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
		args = append(args, sc.TenantID())
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete record")
	}

	return requireAffected(result)
}

// CreateDocument inserts a document row.
func (m *MySQLRecordRepository) CreateDocument(
	ctx context.Context,
	sc scope.Scope,
	document *recordsDomain.Document,
) error {
	querier := database.GetTx(ctx, m.db)

	if !sc.Bypassed() && document.TenantID != sc.TenantID() {
		return apperrors.ErrNotFound
	}

	query := `INSERT INTO record_documents
			  (id, record_id, tenant_id, filename, content_type, size_bytes, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

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
func (m *MySQLRecordRepository) ListDocuments(
	ctx context.Context,
	sc scope.Scope,
	recordID uuid.UUID,
) ([]*recordsDomain.Document, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, record_id, tenant_id, filename, content_type, size_bytes, created_at
			  FROM record_documents WHERE record_id = ?`
	args := []any{recordID}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
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

// NewMySQLRecordRepository creates a new MySQL record repository instance.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}
