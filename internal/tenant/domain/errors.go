package domain

import (
	"github.com/allisson/phiguard/internal/errors"
)

var (
	// ErrTenantIdentityImmutable indicates a write attempted to change a
	// record's tenant identity after creation. Handlers surface it as a
	// generic "not permitted" so tenant-boundary probing learns nothing
	// about which rule fired.
	ErrTenantIdentityImmutable = errors.Wrap(errors.ErrForbidden, "tenant identity is immutable")

	// ErrMissingTenantIdentity indicates a scoped operation was attempted
	// without a tenant identity.
	ErrMissingTenantIdentity = errors.Wrap(errors.ErrInvalidInput, "missing tenant identity")
)
