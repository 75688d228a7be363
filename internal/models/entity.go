package models

import "fmt"

// EntityType identifies one of the six synchronized record kinds.
type EntityType string

const (
	EntityCustomers     EntityType = "customers"
	EntityOutlets       EntityType = "outlets"
	EntityProducts      EntityType = "products"
	EntitySales         EntityType = "sales"
	EntitySaleLineItems EntityType = "sale_line_items"
	EntityInventory     EntityType = "inventory"
)

// SyncOrder lists every entity type in foreign-key dependency order:
// sales reference outlets/customers/products, line items reference sales.
// One sync cycle walks this slice front to back.
var SyncOrder = []EntityType{
	EntityOutlets,
	EntityCustomers,
	EntityProducts,
	EntitySales,
	EntitySaleLineItems,
	EntityInventory,
}

// Valid reports whether et is one of the six known entity types.
func (et EntityType) Valid() bool {
	switch et {
	case EntityCustomers, EntityOutlets, EntityProducts,
		EntitySales, EntitySaleLineItems, EntityInventory:
		return true
	}
	return false
}

// Table returns the target store table for the entity type.
func (et EntityType) Table() string {
	return "lightspeed_" + string(et)
}

// DisplayName is the human label used by the dashboard.
func (et EntityType) DisplayName() string {
	switch et {
	case EntityCustomers:
		return "Customers"
	case EntityOutlets:
		return "Outlets"
	case EntityProducts:
		return "Products"
	case EntitySales:
		return "Sales"
	case EntitySaleLineItems:
		return "Sale Line Items"
	case EntityInventory:
		return "Inventory"
	}
	return string(et)
}

// HasVersionCursor reports whether the upstream API supports delta fetches
// for this entity. Outlets and inventory only offer full scans; line items
// ride on the sales cursor.
func (et EntityType) HasVersionCursor() bool {
	switch et {
	case EntityCustomers, EntityProducts, EntitySales, EntitySaleLineItems:
		return true
	}
	return false
}

// ParseEntityType validates a raw string coming from config or CLI flags.
func ParseEntityType(s string) (EntityType, error) {
	et := EntityType(s)
	if !et.Valid() {
		return "", fmt.Errorf("unknown entity type: %q", s)
	}
	return et, nil
}
