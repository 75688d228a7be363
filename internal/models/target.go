package models

// TargetRecord is one normalized row bound for the target store. Identity is
// always the upstream id; the writer upserts by that key and never generates
// ids of its own.
type TargetRecord interface {
	// TargetTable names the destination table.
	TargetTable() string
	// Columns lists the column names, primary key first, matching Values.
	Columns() []string
	// Values lists the column values in Columns order.
	Values() []any
}

// Source-system timestamps are carried verbatim as ISO-8601 strings in
// source_created_at/source_updated_at so upstream history is never clobbered
// by the target store's own row-touch created_at/updated_at columns.

type Customer struct {
	ID              string
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	SourceCreatedAt *string
	SourceUpdatedAt *string
}

func (Customer) TargetTable() string { return EntityCustomers.Table() }

func (Customer) Columns() []string {
	return []string{"id", "first_name", "last_name", "email", "phone", "source_created_at", "source_updated_at"}
}

func (c Customer) Values() []any {
	return []any{c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.SourceCreatedAt, c.SourceUpdatedAt}
}

type Outlet struct {
	ID      string
	Name    *string
	Address *string
	Phone   *string
	Email   *string
}

func (Outlet) TargetTable() string { return EntityOutlets.Table() }

func (Outlet) Columns() []string {
	return []string{"id", "name", "address", "phone", "email"}
}

func (o Outlet) Values() []any {
	return []any{o.ID, o.Name, o.Address, o.Phone, o.Email}
}

type Product struct {
	ID              string
	Name            *string
	SKU             *string
	Price           float64
	Cost            float64
	BrandID         *string
	SourceCreatedAt *string
	SourceUpdatedAt *string
}

func (Product) TargetTable() string { return EntityProducts.Table() }

func (Product) Columns() []string {
	return []string{"id", "name", "sku", "price", "cost", "brand_id", "source_created_at", "source_updated_at"}
}

func (p Product) Values() []any {
	return []any{p.ID, p.Name, p.SKU, p.Price, p.Cost, p.BrandID, p.SourceCreatedAt, p.SourceUpdatedAt}
}

type Sale struct {
	ID              string
	OutletID        *string
	RegisterID      *string
	UserID          *string
	CustomerID      *string
	InvoiceNumber   *string
	Status          *string
	TotalPrice      float64
	SaleDate        *string
	SourceCreatedAt *string
	SourceUpdatedAt *string
}

func (Sale) TargetTable() string { return EntitySales.Table() }

func (Sale) Columns() []string {
	return []string{
		"id", "outlet_id", "register_id", "user_id", "customer_id",
		"invoice_number", "status", "total_price", "sale_date",
		"source_created_at", "source_updated_at",
	}
}

func (s Sale) Values() []any {
	return []any{
		s.ID, s.OutletID, s.RegisterID, s.UserID, s.CustomerID,
		s.InvoiceNumber, s.Status, s.TotalPrice, s.SaleDate,
		s.SourceCreatedAt, s.SourceUpdatedAt,
	}
}

type SaleLineItem struct {
	ID         string
	SaleID     string
	ProductID  *string
	PriceTotal float64
	Quantity   float64
	Status     *string
	TotalPrice float64
}

func (SaleLineItem) TargetTable() string { return EntitySaleLineItems.Table() }

func (SaleLineItem) Columns() []string {
	return []string{"id", "sale_id", "product_id", "price_total", "quantity", "status", "total_price"}
}

func (li SaleLineItem) Values() []any {
	return []any{li.ID, li.SaleID, li.ProductID, li.PriceTotal, li.Quantity, li.Status, li.TotalPrice}
}

type InventoryLevel struct {
	ID              string
	ProductID       *string
	CurrentAmount   float64
	SourceCreatedAt *string
	SourceUpdatedAt *string
}

func (InventoryLevel) TargetTable() string { return EntityInventory.Table() }

func (InventoryLevel) Columns() []string {
	return []string{"id", "product_id", "current_amount", "source_created_at", "source_updated_at"}
}

func (iv InventoryLevel) Values() []any {
	return []any{iv.ID, iv.ProductID, iv.CurrentAmount, iv.SourceCreatedAt, iv.SourceUpdatedAt}
}
