package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"GM":             RoleGM,
		"gm":             RoleGM,
		"  Sales ":       RoleSales,
		"pmc":            RolePMC,
		"production":     RoleProduction,
		"WAREHOUSE":      RoleWarehouse,
		"ROLE_WAREHOUSE": RoleWarehouse,
		"guest":          RoleGuest,
		"":               RoleGuest,
		"superuser":      RoleGuest,
	}
	for tag, want := range cases {
		assert.Equal(t, want, ParseRole(tag), "tag %q", tag)
	}
}

func TestResolverFallback(t *testing.T) {
	assert.Equal(t, RoleGuest, NewResolver("").Resolve("nobody"))
	assert.Equal(t, RoleGuest, NewResolver("bogus").Resolve(""))
	assert.Equal(t, RoleGM, NewResolver("gm").Resolve("nobody"))
	assert.Equal(t, RoleSales, NewResolver("gm").Resolve("sales"))
}

func TestCapabilities(t *testing.T) {
	gm := RoleGM.Capabilities()
	assert.Equal(t, Capabilities{
		CanSeeSensitive:          true,
		CanEditOrderBasics:       true,
		CanDeleteOrder:           true,
		CanManageProductionPlan:  true,
		CanUpdateProcessProgress: true,
		CanWarehouseOps:          true,
		CanManageShippingPlan:    true,
		CanForceStatus:           true,
		CanImportOrders:          true,
	}, gm)

	assert.Equal(t, Capabilities{}, RoleGuest.Capabilities())
	assert.Equal(t, Capabilities{}, Role("UNKNOWN").Capabilities())

	sales := RoleSales.Capabilities()
	assert.True(t, sales.CanSeeSensitive)
	assert.True(t, sales.CanManageShippingPlan)
	assert.False(t, sales.CanDeleteOrder)
	assert.False(t, sales.CanWarehouseOps)

	pmc := RolePMC.Capabilities()
	assert.True(t, pmc.CanManageProductionPlan)
	assert.False(t, pmc.CanSeeSensitive)

	prod := RoleProduction.Capabilities()
	assert.True(t, prod.CanUpdateProcessProgress)
	assert.False(t, prod.CanManageProductionPlan)

	wh := RoleWarehouse.Capabilities()
	assert.True(t, wh.CanWarehouseOps)
	assert.False(t, wh.CanSeeSensitive)
	assert.False(t, wh.CanEditOrderBasics)
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("gm"))
	assert.True(t, IsKnown("ROLE_WAREHOUSE"))
	assert.True(t, IsKnown("guest"))
	assert.False(t, IsKnown("engineer"))
	assert.False(t, IsKnown(""))
}
