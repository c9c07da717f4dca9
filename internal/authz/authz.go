// Package authz maps roles to the capabilities they hold. Handlers and
// middleware ask for a capability, never for a role id.
package authz

import "github.com/venky2821/finalproject/internal/model"

type Capability string

const (
	ReserveOrders   Capability = "orders:reserve"
	ModerateOrders  Capability = "orders:moderate"
	WriteCatalog    Capability = "catalog:write"
	WriteInventory  Capability = "inventory:write"
	ModerateContent Capability = "content:moderate"
	ViewReports     Capability = "reports:view"
)

// Authorizer answers whether a role holds a capability.
type Authorizer interface {
	Allows(role model.RoleID, c Capability) bool
}

// RoleTable is a static role → capability set.
type RoleTable map[model.RoleID]map[Capability]bool

func (t RoleTable) Allows(role model.RoleID, c Capability) bool {
	return t[role][c]
}

// Default is the production role table.
func Default() RoleTable {
	return RoleTable{
		model.RoleAdmin: set(
			ReserveOrders, ModerateOrders, WriteCatalog, WriteInventory, ModerateContent, ViewReports,
		),
		model.RoleCustomer: set(ReserveOrders),
		model.RoleSupplier: set(ReserveOrders, WriteCatalog, WriteInventory),
	}
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}
