// Package domain defines the tenant domain model. A tenant is an
// organizational boundary whose rows must never be visible to another tenant;
// every tenant-owned entity carries an immutable tenant identity column.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents an owning organization.
type Tenant struct {
	// ID is the unique tenant identifier (UUIDv7).
	ID uuid.UUID
	// Name is the human-readable organization name.
	Name string
	// Active indicates whether the tenant can be used for new records.
	Active bool
	// CreatedAt is the UTC timestamp when the tenant was created.
	CreatedAt time.Time
}

// EnsureImmutableIdentity rejects any attempt to move a record to a different
// tenant after creation. The zero UUID means "not supplied" and is allowed.
// The check applies to scoped and unscoped callers alike: the bypass widens
// read scope, never the mutability contract.
func EnsureImmutableIdentity(current, next uuid.UUID) error {
	if next == uuid.Nil || next == current {
		return nil
	}
	return ErrTenantIdentityImmutable
}
