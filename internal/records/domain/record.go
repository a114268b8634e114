// Package domain defines the patient record, the tenant-scoped entity whose
// sensitive fields are guarded by field-level encryption. Plaintext values
// exist only in memory; the persisted columns hold ciphertext envelopes plus
// a keyed lookup hash for the national id.
package domain

import (
	"time"

	"github.com/google/uuid"

	phiDomain "github.com/allisson/phiguard/internal/phi/domain"
)

// Sensitive field names of a record.
const (
	FieldNationalID = "national_id"
	FieldPhone      = "phone"
	FieldAddress    = "address"
)

// FieldSet is the declared sensitive-field set of the record entity. The
// national id supports equality lookup through its hash column.
func FieldSet() phiDomain.FieldSet {
	return phiDomain.FieldSet{
		Entity: "record",
		Fields: []phiDomain.FieldSpec{
			{Name: FieldNationalID, Lookup: true},
			{Name: FieldPhone},
			{Name: FieldAddress},
		},
	}
}

// Record represents a patient record owned by a tenant.
type Record struct {
	// ID is the unique identifier (UUIDv7).
	ID uuid.UUID
	// TenantID is the owning tenant, stamped at creation and immutable after.
	TenantID uuid.UUID
	// FullName is the display name; not part of the sensitive field set.
	FullName string

	// NationalID, Phone and Address hold decrypted plaintext in memory only.
	// They are never serialized and never persisted.
	NationalID string `json:"-"`
	Phone      string `json:"-"`
	Address    string `json:"-"`

	// Sealed* hold the ciphertext envelopes as stored in the database.
	SealedNationalID string
	SealedPhone      string
	SealedAddress    string
	// NationalIDHash is the keyed lookup digest enabling equality search
	// without decryption.
	NationalIDHash string

	CreatedAt time.Time
	UpdatedAt time.Time
	// DeletedAt marks when this record was soft-deleted (nil if active).
	DeletedAt *time.Time
}

// SealedFields returns the persisted envelope values keyed by field name.
func (r *Record) SealedFields() map[string]string {
	return map[string]string{
		FieldNationalID: r.SealedNationalID,
		FieldPhone:      r.SealedPhone,
		FieldAddress:    r.SealedAddress,
	}
}

// ApplySeal stores guard output back onto the record.
func (r *Record) ApplySeal(values, hashes map[string]string) {
	if v, ok := values[FieldNationalID]; ok {
		r.SealedNationalID = v
	}
	if v, ok := values[FieldPhone]; ok {
		r.SealedPhone = v
	}
	if v, ok := values[FieldAddress]; ok {
		r.SealedAddress = v
	}
	if h, ok := hashes[FieldNationalID]; ok {
		r.NationalIDHash = h
	}
}

// ApplyPlaintext stores disclosed values back onto the in-memory fields.
func (r *Record) ApplyPlaintext(values map[string]string) {
	if v, ok := values[FieldNationalID]; ok {
		r.NationalID = v
	}
	if v, ok := values[FieldPhone]; ok {
		r.Phone = v
	}
	if v, ok := values[FieldAddress]; ok {
		r.Address = v
	}
}

// Document is a file attached to a record. It inherits the parent record's
// tenant; attaching across tenants is rejected at the write boundary.
type Document struct {
	ID          uuid.UUID
	RecordID    uuid.UUID
	TenantID    uuid.UUID
	Filename    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
