package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/phiguard/internal/errors"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// The sqlmock tests pin the scoping contract of the generated SQL: a tenant
// scope always lands in the WHERE clause, a bypassed scope never does, and a
// zero-row update surfaces as not-found.

var recordColumns = []string{
	"id", "tenant_id", "full_name", "sealed_national_id", "sealed_phone",
	"sealed_address", "national_id_hash", "created_at", "updated_at", "deleted_at",
}

func recordRow(id, tenantID uuid.UUID) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(recordColumns).AddRow(
		id, tenantID, "Maria da Silva",
		"phi:v1:aes-gcm:dGVzdA==:dGVzdA==", "", "",
		"0000000000000000000000000000000000000000000000000000000000000000",
		now, now, nil,
	)
}

func newMockRepo(t *testing.T) (*PostgreSQLRecordRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgreSQLRecordRepository(db), mock
}

func TestPostgreSQLRecordRepository_Get_Scoped(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenantID := uuid.Must(uuid.NewV7())
	recordID := uuid.Must(uuid.NewV7())
	sc, err := scope.ForTenant(tenantID)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM records WHERE id = \$1 AND deleted_at IS NULL AND tenant_id = \$2`).
		WithArgs(recordID, tenantID).
		WillReturnRows(recordRow(recordID, tenantID))

	record, err := repo.Get(context.Background(), sc, recordID)
	require.NoError(t, err)
	assert.Equal(t, recordID, record.ID)
	assert.Equal(t, tenantID, record.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_Get_Bypassed(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenantID := uuid.Must(uuid.NewV7())
	recordID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery(`SELECT .+ FROM records WHERE id = \$1 AND deleted_at IS NULL$`).
		WithArgs(recordID).
		WillReturnRows(recordRow(recordID, tenantID))

	record, err := repo.Get(context.Background(), scope.Unscoped("migration"), recordID)
	require.NoError(t, err)
	assert.Equal(t, recordID, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_Get_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenantID := uuid.Must(uuid.NewV7())
	recordID := uuid.Must(uuid.NewV7())
	sc, err := scope.ForTenant(tenantID)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM records`).
		WithArgs(recordID, tenantID).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err = repo.Get(context.Background(), sc, recordID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_GetByNationalIDHash_Scoped(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenantID := uuid.Must(uuid.NewV7())
	recordID := uuid.Must(uuid.NewV7())
	sc, err := scope.ForTenant(tenantID)
	require.NoError(t, err)
	hash := "0000000000000000000000000000000000000000000000000000000000000000"

	mock.ExpectQuery(`SELECT .+ FROM records WHERE national_id_hash = \$1 AND deleted_at IS NULL AND tenant_id = \$2 LIMIT 1`).
		WithArgs(hash, tenantID).
		WillReturnRows(recordRow(recordID, tenantID))

	record, err := repo.GetByNationalIDHash(context.Background(), sc, hash)
	require.NoError(t, err)
	assert.Equal(t, recordID, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_Create_ScopeMismatch(t *testing.T) {
	repo, _ := newMockRepo(t)
	sc, err := scope.ForTenant(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)

	record := &recordsDomain.Record{
		ID:       uuid.Must(uuid.NewV7()),
		TenantID: uuid.Must(uuid.NewV7()),
	}

	// No SQL is expected; the mismatch fails before any query runs.
	err = repo.Create(context.Background(), sc, record)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLRecordRepository_Update_ZeroRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenantID := uuid.Must(uuid.NewV7())
	sc, err := scope.ForTenant(tenantID)
	require.NoError(t, err)

	record := &recordsDomain.Record{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  uuid.Must(uuid.NewV7()),
		FullName:  "Maria da Silva",
		UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectExec(`UPDATE records`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), sc, record)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_Update_ScopedPredicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenantID := uuid.Must(uuid.NewV7())
	sc, err := scope.ForTenant(tenantID)
	require.NoError(t, err)

	record := &recordsDomain.Record{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		FullName:  "Maria da Silva",
		UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectExec(`UPDATE records\s+SET .+ WHERE id = \$7 AND deleted_at IS NULL AND tenant_id = \$8`).
		WithArgs(
			record.FullName,
			record.SealedNationalID,
			record.SealedPhone,
			record.SealedAddress,
			record.NationalIDHash,
			record.UpdatedAt,
			record.ID,
			tenantID,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), sc, record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_Delete_ZeroRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	sc, err := scope.ForTenant(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE records SET deleted_at = \$1 WHERE id = \$2 AND deleted_at IS NULL AND tenant_id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), sc, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_List_Scoped(t *testing.T) {
	repo, mock := newMockRepo(t)
	tenantID := uuid.Must(uuid.NewV7())
	sc, err := scope.ForTenant(tenantID)
	require.NoError(t, err)

	query := regexp.QuoteMeta(`AND tenant_id = $1`)
	mock.ExpectQuery(`SELECT .+ FROM records WHERE deleted_at IS NULL ` + query).
		WithArgs(tenantID, 10, 0).
		WillReturnRows(recordRow(uuid.Must(uuid.NewV7()), tenantID))

	records, err := repo.List(context.Background(), sc, 0, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRecordRepository_ListAfter_Bypassed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM records WHERE id > \$1 ORDER BY id LIMIT \$2`).
		WithArgs(uuid.Nil, 100).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	records, err := repo.ListAfter(context.Background(), scope.Unscoped("scan"), uuid.Nil, 100)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
