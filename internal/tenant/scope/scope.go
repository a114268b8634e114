// Package scope implements the tenant scope engine. A Scope is a capability
// value: every repository method touching tenant-owned rows requires one, so
// tenant filtering is enforced at the call-site type level instead of being
// an opt-out default. The only way to skip the tenant predicate is the
// explicit Unscoped constructor, which makes every bypass visible in code
// review and in logs.
package scope

import (
	"log/slog"

	"github.com/google/uuid"

	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

// Scope carries the tenant identity every query predicate is built from.
// The zero value is unusable: construct through ForTenant or Unscoped.
type Scope struct {
	tenantID uuid.UUID
	bypass   bool
	reason   string
}

// ForTenant builds the default, implicit scope for an authenticated actor.
// Reads receive an equality predicate on the tenant identity, creates stamp
// it onto new rows, and updates/deletes silently match zero rows outside the
// tenant (surfacing as not-found).
func ForTenant(id uuid.UUID) (Scope, error) {
	if id == uuid.Nil {
		return Scope{}, tenantDomain.ErrMissingTenantIdentity
	}
	return Scope{tenantID: id}, nil
}

// Unscoped builds the explicit cross-tenant bypass for privileged or
// background operations (migrations, admin reports). The reason is mandatory
// and is attached to logs and audit records at every use.
func Unscoped(reason string) Scope {
	return Scope{bypass: true, reason: reason}
}

// TenantID returns the scope's tenant identity (uuid.Nil when bypassed).
func (s Scope) TenantID() uuid.UUID {
	return s.tenantID
}

// Bypassed reports whether the scope skips tenant filtering.
func (s Scope) Bypassed() bool {
	return s.bypass
}

// Reason returns the bypass justification supplied to Unscoped.
func (s Scope) Reason() string {
	return s.reason
}

// Allows reports whether a row owned by the given tenant is visible under
// this scope.
func (s Scope) Allows(owner uuid.UUID) bool {
	if s.bypass {
		return true
	}
	return s.tenantID == owner
}

// LogValue renders the scope for structured logging without leaking anything
// beyond the tenant id and bypass state.
func (s Scope) LogValue() slog.Value {
	if s.bypass {
		return slog.GroupValue(
			slog.Bool("bypass", true),
			slog.String("reason", s.reason),
		)
	}
	return slog.GroupValue(
		slog.String("tenant_id", s.tenantID.String()),
	)
}
