package scope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

func TestForTenant(t *testing.T) {
	t.Run("valid tenant identity", func(t *testing.T) {
		tenantID := uuid.Must(uuid.NewV7())

		sc, err := ForTenant(tenantID)
		require.NoError(t, err)

		assert.False(t, sc.Bypassed())
		assert.Equal(t, tenantID, sc.TenantID())
	})

	t.Run("nil tenant identity is rejected", func(t *testing.T) {
		_, err := ForTenant(uuid.Nil)
		assert.ErrorIs(t, err, tenantDomain.ErrMissingTenantIdentity)
	})
}

func TestUnscoped(t *testing.T) {
	sc := Unscoped("nightly reconciliation over all tenants")

	assert.True(t, sc.Bypassed())
	assert.Equal(t, uuid.Nil, sc.TenantID())
	assert.Equal(t, "nightly reconciliation over all tenants", sc.Reason())
}

func TestScope_Allows(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	sc, err := ForTenant(owner)
	require.NoError(t, err)

	assert.True(t, sc.Allows(owner))
	assert.False(t, sc.Allows(other))

	bypass := Unscoped("migration")
	assert.True(t, bypass.Allows(owner))
	assert.True(t, bypass.Allows(other))
}
