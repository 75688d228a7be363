// Package transform holds the pure mapping functions from upstream payload
// shapes to target store rows. No I/O happens here; every function is a
// plain value mapping so edge cases stay unit-testable.
package transform

import (
	"strings"

	"github.com/craftco/lightspeed-sync/internal/lightspeed"
	"github.com/craftco/lightspeed-sync/internal/models"
)

// Customer maps an upstream customer onto the target row. Source timestamps
// pass through as ISO-8601 strings; reparsing them risks timezone drift.
func Customer(c lightspeed.RawCustomer) models.Customer {
	return models.Customer{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		SourceCreatedAt: c.CreatedAt,
		SourceUpdatedAt: c.UpdatedAt,
	}
}

// Outlet maps an upstream outlet, joining the two physical address lines
// into the single address column.
func Outlet(o lightspeed.RawOutlet) models.Outlet {
	addr := strings.TrimSpace(o.PhysicalAddress1 + " " + o.PhysicalAddress2)
	var addrPtr *string
	if addr != "" {
		addrPtr = &addr
	}
	return models.Outlet{
		ID:      o.ID,
		Name:    o.Name,
		Address: addrPtr,
		Phone:   o.Phone,
		Email:   o.Email,
	}
}

// Product maps an upstream product. Absent prices default to zero rather
// than NULL so aggregation queries never trip over missing numerics.
func Product(p lightspeed.RawProduct) models.Product {
	return models.Product{
		ID:              p.ID,
		Name:            p.Name,
		SKU:             p.SKU,
		Price:           orZero(p.PriceExcludingTax),
		Cost:            orZero(p.SupplyPrice),
		BrandID:         emptyToNil(p.BrandID),
		SourceCreatedAt: p.CreatedAt,
		SourceUpdatedAt: p.UpdatedAt,
	}
}

// Sale maps an upstream sale. An empty customer_id becomes a NULL foreign
// key, not an empty string, to keep referential integrity in the target
// store. The sale date is the upstream creation timestamp.
func Sale(s lightspeed.RawSale) models.Sale {
	return models.Sale{
		ID:              s.ID,
		OutletID:        emptyToNil(s.OutletID),
		RegisterID:      emptyToNil(s.RegisterID),
		UserID:          emptyToNil(s.UserID),
		CustomerID:      emptyToNil(s.CustomerID),
		InvoiceNumber:   s.InvoiceNumber,
		Status:          s.Status,
		TotalPrice:      orZero(s.TotalPrice),
		SaleDate:        s.CreatedAt,
		SourceCreatedAt: s.CreatedAt,
		SourceUpdatedAt: s.UpdatedAt,
	}
}

// Inventory maps an upstream inventory level. Quantity defaults to zero
// when the field is missing entirely.
func Inventory(iv lightspeed.RawInventory) models.InventoryLevel {
	return models.InventoryLevel{
		ID:              iv.ID,
		ProductID:       emptyToNil(iv.ProductID),
		CurrentAmount:   orZero(iv.CurrentAmount),
		SourceCreatedAt: iv.CreatedAt,
		SourceUpdatedAt: iv.UpdatedAt,
	}
}

// FlattenLineItems derives line-item rows from the line_items nested in
// sales payloads. This is the only acquisition path for line items: they
// have no delta endpoint of their own and inherit the sales cursor.
func FlattenLineItems(sales []lightspeed.RawSale) []models.SaleLineItem {
	var items []models.SaleLineItem
	for _, sale := range sales {
		for _, li := range sale.LineItems {
			items = append(items, models.SaleLineItem{
				ID:         li.ID,
				SaleID:     sale.ID,
				ProductID:  emptyToNil(li.ProductID),
				PriceTotal: orZero(li.PriceTotal),
				Quantity:   orZero(li.Quantity),
				Status:     li.Status,
				TotalPrice: orZero(li.TotalPrice),
			})
		}
	}
	return items
}

func orZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
