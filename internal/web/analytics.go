package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/craftco/lightspeed-sync/internal/store"
)

const defaultReportWindow = 30 * 24 * time.Hour

// ReportStore is the analytics surface's read contract.
type ReportStore interface {
	SalesSummary(ctx context.Context, from, to time.Time) (store.SalesSummary, error)
	DailyRevenue(ctx context.Context, from, to time.Time) ([]store.DailyRevenue, error)
	RevenueByWeekday(ctx context.Context, from, to time.Time) ([]store.WeekdayRevenue, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]store.ProductSales, error)
}

// Analytics serves read-only aggregation endpoints over the synced tables.
type Analytics struct {
	reports ReportStore
	printer *message.Printer
	logger  *slog.Logger
	now     func() time.Time
}

func NewAnalytics(reports ReportStore, logger *slog.Logger) *Analytics {
	return &Analytics{
		reports: reports,
		printer: message.NewPrinter(language.English),
		logger:  logger,
		now:     time.Now,
	}
}

// Routes builds the analytics router.
func (a *Analytics) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", a.handleSummary)
		r.Get("/daily-revenue", a.handleDailyRevenue)
		r.Get("/revenue-by-weekday", a.handleWeekdayRevenue)
		r.Get("/top-products", a.handleTopProducts)
	})

	return r
}

func (a *Analytics) handleSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := a.dateRange(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := a.reports.SalesSummary(r.Context(), from, to)
	if err != nil {
		a.logger.Error("Summary query failed", "error", err)
		httpError(w, http.StatusInternalServerError, "summary query failed")
		return
	}
	writeJSON(w, map[string]any{
		"from":                  from.Format("2006-01-02"),
		"to":                    to.Format("2006-01-02"),
		"total_revenue":         sum.TotalRevenue,
		"transactions":          sum.Transactions,
		"avg_transaction":       sum.AvgTransaction,
		"total_revenue_display": a.printer.Sprintf("$%.2f", sum.TotalRevenue),
		"transactions_display":  a.printer.Sprintf("%d", sum.Transactions),
	})
}

func (a *Analytics) handleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := a.dateRange(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := a.reports.DailyRevenue(r.Context(), from, to)
	if err != nil {
		a.logger.Error("Daily revenue query failed", "error", err)
		httpError(w, http.StatusInternalServerError, "daily revenue query failed")
		return
	}
	writeJSON(w, map[string]any{"data": days})
}

func (a *Analytics) handleWeekdayRevenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := a.dateRange(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	weekdays, err := a.reports.RevenueByWeekday(r.Context(), from, to)
	if err != nil {
		a.logger.Error("Weekday revenue query failed", "error", err)
		httpError(w, http.StatusInternalServerError, "weekday revenue query failed")
		return
	}
	writeJSON(w, map[string]any{"data": weekdays})
}

func (a *Analytics) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	from, to, err := a.dateRange(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			httpError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}
	products, err := a.reports.TopProducts(r.Context(), from, to, limit)
	if err != nil {
		a.logger.Error("Top products query failed", "error", err)
		httpError(w, http.StatusInternalServerError, "top products query failed")
		return
	}
	writeJSON(w, map[string]any{"data": products})
}

// dateRange parses from/to query params (YYYY-MM-DD), defaulting to the
// last 30 days. to is exclusive of the following midnight.
func (a *Analytics) dateRange(r *http.Request) (time.Time, time.Time, error) {
	now := a.now().UTC()
	from := now.Add(-defaultReportWindow)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errBadDate("from", raw)
		}
		from = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errBadDate("to", raw)
		}
		to = t.Add(24 * time.Hour)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, errRange
	}
	return from, to, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
