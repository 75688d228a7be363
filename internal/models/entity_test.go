package models

import "testing"

func TestSyncOrderCoversAllEntities(t *testing.T) {
	if len(SyncOrder) != 6 {
		t.Fatalf("SyncOrder has %d entries, want 6", len(SyncOrder))
	}
	seen := map[EntityType]bool{}
	for _, et := range SyncOrder {
		if !et.Valid() {
			t.Errorf("SyncOrder contains invalid entity %q", et)
		}
		if seen[et] {
			t.Errorf("SyncOrder lists %q twice", et)
		}
		seen[et] = true
	}
}

func TestSyncOrderRespectsDependencies(t *testing.T) {
	pos := map[EntityType]int{}
	for i, et := range SyncOrder {
		pos[et] = i
	}
	deps := [][2]EntityType{
		{EntityOutlets, EntitySales},
		{EntityCustomers, EntitySales},
		{EntityProducts, EntitySales},
		{EntitySales, EntitySaleLineItems},
		{EntityProducts, EntityInventory},
	}
	for _, d := range deps {
		if pos[d[0]] >= pos[d[1]] {
			t.Errorf("%s must sync before %s", d[0], d[1])
		}
	}
}

func TestEntityTable(t *testing.T) {
	if got := EntitySaleLineItems.Table(); got != "lightspeed_sale_line_items" {
		t.Errorf("Table() = %q", got)
	}
}

func TestHasVersionCursor(t *testing.T) {
	tests := []struct {
		et   EntityType
		want bool
	}{
		{EntityCustomers, true},
		{EntityProducts, true},
		{EntitySales, true},
		{EntitySaleLineItems, true},
		{EntityOutlets, false},
		{EntityInventory, false},
	}
	for _, tt := range tests {
		if got := tt.et.HasVersionCursor(); got != tt.want {
			t.Errorf("%s.HasVersionCursor() = %v, want %v", tt.et, got, tt.want)
		}
	}
}

func TestParseEntityType(t *testing.T) {
	if _, err := ParseEntityType("sales"); err != nil {
		t.Errorf("ParseEntityType(sales): %v", err)
	}
	if _, err := ParseEntityType("registers"); err == nil {
		t.Error("ParseEntityType accepted an unknown entity")
	}
}
