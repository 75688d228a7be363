package lightspeed

// Upstream payload shapes for the Retail API 2.0 collection endpoints.
// Every record carries an API-assigned id; version is a strictly ordered
// integer used as the delta cursor (upstream does not honor clock-based
// filtering, so timestamps are never used for pagination).

// envelope is the `{ "data": [...] }` wrapper on every collection response.
type envelope[T any] struct {
	Data []T `json:"data"`
}

// versioned is implemented by records that participate in version-cursor
// pagination.
type versioned interface {
	RecordVersion() int64
}

type RawCustomer struct {
	ID        string  `json:"id"`
	Version   int64   `json:"version"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

func (c RawCustomer) RecordVersion() int64 { return c.Version }

type RawOutlet struct {
	ID               string  `json:"id"`
	Name             *string `json:"name"`
	PhysicalAddress1 string  `json:"physical_address_1"`
	PhysicalAddress2 string  `json:"physical_address_2"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
}

type RawProduct struct {
	ID                string   `json:"id"`
	Version           int64    `json:"version"`
	Name              *string  `json:"name"`
	SKU               *string  `json:"sku"`
	PriceExcludingTax *float64 `json:"price_excluding_tax"`
	SupplyPrice       *float64 `json:"supply_price"`
	BrandID           *string  `json:"brand_id"`
	CreatedAt         *string  `json:"created_at"`
	UpdatedAt         *string  `json:"updated_at"`
}

func (p RawProduct) RecordVersion() int64 { return p.Version }

type RawSale struct {
	ID            string        `json:"id"`
	Version       int64         `json:"version"`
	OutletID      *string       `json:"outlet_id"`
	RegisterID    *string       `json:"register_id"`
	UserID        *string       `json:"user_id"`
	CustomerID    *string       `json:"customer_id"`
	InvoiceNumber *string       `json:"invoice_number"`
	Status        *string       `json:"status"`
	TotalPrice    *float64      `json:"total_price"`
	CreatedAt     *string       `json:"created_at"`
	UpdatedAt     *string       `json:"updated_at"`
	LineItems     []RawLineItem `json:"line_items"`
}

func (s RawSale) RecordVersion() int64 { return s.Version }

// RawLineItem only ever appears nested inside a sale payload; line items
// have no independent delta endpoint.
type RawLineItem struct {
	ID         string   `json:"id"`
	ProductID  *string  `json:"product_id"`
	PriceTotal *float64 `json:"price_total"`
	Quantity   *float64 `json:"quantity"`
	Status     *string  `json:"status"`
	TotalPrice *float64 `json:"total_price"`
}

type RawInventory struct {
	ID        string  `json:"id"`
	ProductID *string `json:"product_id"`
	// Upstream names the quantity current_inventory; the target column is
	// current_amount.
	CurrentAmount *float64 `json:"current_inventory"`
	CreatedAt     *string  `json:"created_at"`
	UpdatedAt     *string  `json:"updated_at"`
}
