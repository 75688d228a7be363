package store

import (
	"context"
	"fmt"
	"time"
)

// Read-only aggregation queries backing the analytics surface. Everything
// here filters on sale_date within a caller-supplied range; nothing in this
// file writes.

type SalesSummary struct {
	TotalRevenue   float64 `json:"total_revenue"`
	Transactions   int64   `json:"transactions"`
	AvgTransaction float64 `json:"avg_transaction"`
}

type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

type WeekdayRevenue struct {
	Weekday string  `json:"weekday"`
	Revenue float64 `json:"revenue"`
}

type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// SalesSummary aggregates revenue and transaction counts over the range.
func (s *Store) SalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_price), 0), COUNT(*)
		FROM lightspeed_sales
		WHERE sale_date::timestamptz >= $1 AND sale_date::timestamptz < $2
	`
	var sum SalesSummary
	if err := s.pool.QueryRow(ctx, query, from, to).Scan(&sum.TotalRevenue, &sum.Transactions); err != nil {
		return sum, fmt.Errorf("sales summary: %w", err)
	}
	if sum.Transactions > 0 {
		sum.AvgTransaction = sum.TotalRevenue / float64(sum.Transactions)
	}
	return sum, nil
}

// DailyRevenue returns per-day revenue totals over the range.
func (s *Store) DailyRevenue(ctx context.Context, from, to time.Time) ([]DailyRevenue, error) {
	query := `
		SELECT date_trunc('day', sale_date::timestamptz) AS day, COALESCE(SUM(total_price), 0)
		FROM lightspeed_sales
		WHERE sale_date::timestamptz >= $1 AND sale_date::timestamptz < $2
		GROUP BY day
		ORDER BY day
	`
	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily revenue: %w", err)
	}
	defer rows.Close()

	var out []DailyRevenue
	for rows.Next() {
		var d DailyRevenue
		if err := rows.Scan(&d.Date, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scanning daily revenue: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RevenueByWeekday returns revenue grouped by day of week, Monday first.
func (s *Store) RevenueByWeekday(ctx context.Context, from, to time.Time) ([]WeekdayRevenue, error) {
	query := `
		SELECT trim(to_char(sale_date::timestamptz, 'Day')), COALESCE(SUM(total_price), 0)
		FROM lightspeed_sales
		WHERE sale_date::timestamptz >= $1 AND sale_date::timestamptz < $2
		GROUP BY trim(to_char(sale_date::timestamptz, 'Day')),
		         extract(isodow FROM sale_date::timestamptz)
		ORDER BY extract(isodow FROM sale_date::timestamptz)
	`
	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("weekday revenue: %w", err)
	}
	defer rows.Close()

	var out []WeekdayRevenue
	for rows.Next() {
		var w WeekdayRevenue
		if err := rows.Scan(&w.Weekday, &w.Revenue); err != nil {
			return nil, fmt.Errorf("scanning weekday revenue: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// TopProducts joins line items with their sale (for the date filter) and
// product (for the name), returning the best sellers by revenue.
func (s *Store) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	query := `
		SELECT li.product_id,
		       COALESCE(p.name, 'Unknown'),
		       COALESCE(SUM(li.quantity), 0),
		       COALESCE(SUM(li.price_total), 0) AS revenue
		FROM lightspeed_sale_line_items li
		JOIN lightspeed_sales s ON s.id = li.sale_id
		LEFT JOIN lightspeed_products p ON p.id = li.product_id
		WHERE s.sale_date::timestamptz >= $1 AND s.sale_date::timestamptz < $2
		  AND li.product_id IS NOT NULL
		GROUP BY li.product_id, p.name
		ORDER BY revenue DESC
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scanning top products: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
