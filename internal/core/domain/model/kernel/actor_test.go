package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdminActor(t *testing.T) {
	t.Run("should create tenant admin", func(t *testing.T) {
		adminID := kernel.NewUUID()
		tenantID := kernel.NewUUID()

		actor, err := kernel.NewAdminActor(adminID, tenantID, false)

		require.NoError(t, err)
		assert.Equal(t, kernel.ActorAdmin, actor.Kind())
		assert.True(t, actor.AdminID().IsEqual(adminID))
		assert.True(t, actor.TenantID().IsEqual(tenantID))
		assert.False(t, actor.IsSuperAdmin())
	})

	t.Run("should create super admin without tenant scope", func(t *testing.T) {
		actor, err := kernel.NewAdminActor(kernel.NewUUID(), kernel.UUID{}, true)

		require.NoError(t, err)
		assert.True(t, actor.IsSuperAdmin())
	})

	t.Run("should reject tenant admin without tenant", func(t *testing.T) {
		_, err := kernel.NewAdminActor(kernel.NewUUID(), kernel.UUID{}, false)

		require.Error(t, err)
	})

	t.Run("should reject missing admin id", func(t *testing.T) {
		_, err := kernel.NewAdminActor(kernel.UUID{}, kernel.NewUUID(), false)

		require.Error(t, err)
	})
}

func TestNewCustomerActor(t *testing.T) {
	t.Run("should create customer actor", func(t *testing.T) {
		customerID := kernel.NewUUID()
		tenantID := kernel.NewUUID()

		actor, err := kernel.NewCustomerActor(customerID, tenantID)

		require.NoError(t, err)
		assert.Equal(t, kernel.ActorCustomer, actor.Kind())
		assert.True(t, actor.CustomerID().IsEqual(customerID))
	})

	t.Run("should reject missing ids", func(t *testing.T) {
		_, err := kernel.NewCustomerActor(kernel.UUID{}, kernel.NewUUID())
		require.Error(t, err)

		_, err = kernel.NewCustomerActor(kernel.NewUUID(), kernel.UUID{})
		require.Error(t, err)
	})
}

func TestActor_WithDisplayName(t *testing.T) {
	t.Run("carries the forwarded name", func(t *testing.T) {
		actor, err := kernel.NewAdminActor(kernel.NewUUID(), kernel.NewUUID(), false)
		require.NoError(t, err)

		named := actor.WithDisplayName("Dana Ops")

		assert.Equal(t, "Dana Ops", named.DisplayName())
		assert.Equal(t, kernel.ActorAdmin, named.Kind())
	})

	t.Run("original actor stays unnamed", func(t *testing.T) {
		actor, err := kernel.NewCustomerActor(kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)

		_ = actor.WithDisplayName("Jamie Doe")

		assert.Empty(t, actor.DisplayName())
	})
}

func TestActor_Validate(t *testing.T) {
	t.Run("zero value actor is invalid", func(t *testing.T) {
		var actor kernel.Actor
		require.Error(t, actor.Validate())
	})

	t.Run("system actor is valid", func(t *testing.T) {
		actor := kernel.NewSystemActor()
		require.NoError(t, actor.Validate())
		assert.True(t, actor.IsSystem())
	})
}

func TestActor_CanManageTenant(t *testing.T) {
	tenantID := kernel.NewUUID()
	otherTenantID := kernel.NewUUID()

	t.Run("tenant admin manages own tenant only", func(t *testing.T) {
		actor, _ := kernel.NewAdminActor(kernel.NewUUID(), tenantID, false)

		assert.True(t, actor.CanManageTenant(tenantID))
		assert.False(t, actor.CanManageTenant(otherTenantID))
	})

	t.Run("super admin manages any tenant", func(t *testing.T) {
		actor, _ := kernel.NewAdminActor(kernel.NewUUID(), kernel.UUID{}, true)

		assert.True(t, actor.CanManageTenant(tenantID))
		assert.True(t, actor.CanManageTenant(otherTenantID))
	})

	t.Run("system actor manages any tenant", func(t *testing.T) {
		actor := kernel.NewSystemActor()

		assert.True(t, actor.CanManageTenant(tenantID))
	})

	t.Run("customer never manages a tenant", func(t *testing.T) {
		actor, _ := kernel.NewCustomerActor(kernel.NewUUID(), tenantID)

		assert.False(t, actor.CanManageTenant(tenantID))
	})
}

func TestActor_CanReadOrder(t *testing.T) {
	tenantID := kernel.NewUUID()
	customerID := kernel.NewUUID()

	t.Run("owning customer can read", func(t *testing.T) {
		actor, _ := kernel.NewCustomerActor(customerID, tenantID)

		assert.True(t, actor.CanReadOrder(tenantID, customerID))
	})

	t.Run("another customer cannot read", func(t *testing.T) {
		actor, _ := kernel.NewCustomerActor(kernel.NewUUID(), tenantID)

		assert.False(t, actor.CanReadOrder(tenantID, customerID))
	})

	t.Run("tenant admin can read", func(t *testing.T) {
		actor, _ := kernel.NewAdminActor(kernel.NewUUID(), tenantID, false)

		assert.True(t, actor.CanReadOrder(tenantID, customerID))
	})

	t.Run("admin of another tenant cannot read", func(t *testing.T) {
		actor, _ := kernel.NewAdminActor(kernel.NewUUID(), kernel.NewUUID(), false)

		assert.False(t, actor.CanReadOrder(tenantID, customerID))
	})
}
