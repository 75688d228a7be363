package transform

import (
	"testing"

	"github.com/craftco/lightspeed-sync/internal/lightspeed"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestFlattenLineItems(t *testing.T) {
	sales := []lightspeed.RawSale{
		{
			ID: "sale-1",
			LineItems: []lightspeed.RawLineItem{
				{ID: "li-1", ProductID: strPtr("prod-1"), Quantity: numPtr(2), PriceTotal: numPtr(10)},
				{ID: "li-2", ProductID: strPtr("prod-2"), Quantity: numPtr(1), PriceTotal: numPtr(5)},
			},
		},
		{ID: "sale-2"}, // no line items
	}

	items := FlattenLineItems(sales)
	if len(items) != 2 {
		t.Fatalf("got %d line items, want 2", len(items))
	}
	for _, li := range items {
		if li.SaleID != "sale-1" {
			t.Errorf("line item %s has sale_id %q, want sale-1", li.ID, li.SaleID)
		}
	}
	if items[0].Quantity != 2 || items[1].Quantity != 1 {
		t.Errorf("quantities = %v, %v", items[0].Quantity, items[1].Quantity)
	}
}

func TestFlattenLineItemsEmpty(t *testing.T) {
	if items := FlattenLineItems(nil); len(items) != 0 {
		t.Errorf("got %d items from no sales, want 0", len(items))
	}
}

func TestSaleEmptyCustomerIDBecomesNull(t *testing.T) {
	tests := []struct {
		name       string
		customerID *string
		wantNil    bool
	}{
		{"empty string", strPtr(""), true},
		{"absent", nil, true},
		{"present", strPtr("cust-1"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sale(lightspeed.RawSale{ID: "s1", CustomerID: tt.customerID})
			if (got.CustomerID == nil) != tt.wantNil {
				t.Errorf("CustomerID = %v, wantNil=%v", got.CustomerID, tt.wantNil)
			}
		})
	}
}

func TestSaleDatePassesThroughVerbatim(t *testing.T) {
	// Upstream dates are never reparsed; reformatting risks timezone drift.
	raw := "2024-03-01T17:45:00+11:00"
	got := Sale(lightspeed.RawSale{ID: "s1", CreatedAt: strPtr(raw)})
	if got.SaleDate == nil || *got.SaleDate != raw {
		t.Errorf("SaleDate = %v, want verbatim %q", got.SaleDate, raw)
	}
	if got.SourceCreatedAt == nil || *got.SourceCreatedAt != raw {
		t.Errorf("SourceCreatedAt = %v, want verbatim %q", got.SourceCreatedAt, raw)
	}
}

func TestInventoryQuantityDefaultsToZero(t *testing.T) {
	got := Inventory(lightspeed.RawInventory{ID: "inv-1"})
	if got.CurrentAmount != 0 {
		t.Errorf("CurrentAmount = %v, want 0", got.CurrentAmount)
	}

	got = Inventory(lightspeed.RawInventory{ID: "inv-2", CurrentAmount: numPtr(7)})
	if got.CurrentAmount != 7 {
		t.Errorf("CurrentAmount = %v, want 7", got.CurrentAmount)
	}
}

func TestProductPriceDefaults(t *testing.T) {
	got := Product(lightspeed.RawProduct{ID: "p1"})
	if got.Price != 0 || got.Cost != 0 {
		t.Errorf("Price=%v Cost=%v, want zeros for absent numerics", got.Price, got.Cost)
	}
}

func TestOutletAddressJoin(t *testing.T) {
	tests := []struct {
		name   string
		a1, a2 string
		want   *string
	}{
		{"both lines", "12 Main St", "Suite 4", strPtr("12 Main St Suite 4")},
		{"first only", "12 Main St", "", strPtr("12 Main St")},
		{"neither", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Outlet(lightspeed.RawOutlet{ID: "o1", PhysicalAddress1: tt.a1, PhysicalAddress2: tt.a2})
			switch {
			case tt.want == nil && got.Address != nil:
				t.Errorf("Address = %q, want nil", *got.Address)
			case tt.want != nil && (got.Address == nil || *got.Address != *tt.want):
				t.Errorf("Address = %v, want %q", got.Address, *tt.want)
			}
		})
	}
}

func TestIdentityFromUpstream(t *testing.T) {
	// Target identity is always the upstream id, for every entity.
	if got := Customer(lightspeed.RawCustomer{ID: "c1"}); got.ID != "c1" {
		t.Errorf("customer id = %q", got.ID)
	}
	if got := Sale(lightspeed.RawSale{ID: "s1"}); got.ID != "s1" {
		t.Errorf("sale id = %q", got.ID)
	}
	if got := Inventory(lightspeed.RawInventory{ID: "i1"}); got.ID != "i1" {
		t.Errorf("inventory id = %q", got.ID)
	}
}
