// Package policy maps a caller's role tag to the capabilities that gate
// order workflow actions. Unknown or missing tags resolve to a fallback role
// that carries no capabilities unless the deployment configures otherwise.
package policy

import "strings"

// Role 角色
type Role string

const (
	RoleGM         Role = "GM"
	RoleSales      Role = "SALES"
	RolePMC        Role = "PMC"
	RoleProduction Role = "PRODUCTION"
	RoleWarehouse  Role = "WAREHOUSE"
	RoleGuest      Role = "GUEST"
)

var knownRoles = map[Role]struct{}{
	RoleGM:         {},
	RoleSales:      {},
	RolePMC:        {},
	RoleProduction: {},
	RoleWarehouse:  {},
	RoleGuest:      {},
}

// Resolver 将角色标签解析为角色，无法识别时使用 Fallback
type Resolver struct {
	Fallback Role
}

// NewResolver fallback 为空或无法识别时退回 GUEST
func NewResolver(fallback string) *Resolver {
	r, ok := lookup(fallback)
	if !ok {
		r = RoleGuest
	}
	return &Resolver{Fallback: r}
}

// Resolve never fails.
func (r *Resolver) Resolve(tag string) Role {
	if role, ok := lookup(tag); ok {
		return role
	}
	if r == nil || r.Fallback == "" {
		return RoleGuest
	}
	return r.Fallback
}

// ParseRole 使用默认（最低权限）回退
func ParseRole(tag string) Role {
	return (*Resolver)(nil).Resolve(tag)
}

// IsKnown 标签能否识别为角色
func IsKnown(tag string) bool {
	_, ok := lookup(tag)
	return ok
}

func lookup(tag string) (Role, bool) {
	t := Role(strings.ToUpper(strings.TrimSpace(tag)))
	t = Role(strings.TrimPrefix(string(t), "ROLE_"))
	if _, ok := knownRoles[t]; !ok {
		return "", false
	}
	return t, true
}

func (r Role) String() string {
	return string(r)
}

// Capabilities 角色能力集合
type Capabilities struct {
	CanSeeSensitive          bool `json:"can_see_sensitive"`
	CanEditOrderBasics       bool `json:"can_edit_order_basics"`
	CanDeleteOrder           bool `json:"can_delete_order"`
	CanManageProductionPlan  bool `json:"can_manage_production_plan"`
	CanUpdateProcessProgress bool `json:"can_update_process_progress"`
	CanWarehouseOps          bool `json:"can_warehouse_ops"`
	CanManageShippingPlan    bool `json:"can_manage_shipping_plan"`
	CanForceStatus           bool `json:"can_force_status"`
	CanImportOrders          bool `json:"can_import_orders"`
}

func (r Role) is(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

// Capabilities GUEST 及未知角色全部为 false
func (r Role) Capabilities() Capabilities {
	return Capabilities{
		CanSeeSensitive:          r.is(RoleGM, RoleSales),
		CanEditOrderBasics:       r.is(RoleGM, RoleSales),
		CanDeleteOrder:           r.is(RoleGM),
		CanManageProductionPlan:  r.is(RoleGM, RolePMC),
		CanUpdateProcessProgress: r.is(RoleGM, RoleProduction),
		CanWarehouseOps:          r.is(RoleGM, RoleWarehouse),
		CanManageShippingPlan:    r.is(RoleGM, RoleSales),
		CanForceStatus:           r.is(RoleGM),
		CanImportOrders:          r.is(RoleGM, RoleSales),
	}
}
