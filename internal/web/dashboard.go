// Package web serves the two HTTP surfaces: the sync monitoring dashboard
// and the read-only analytics API. Both are downstream readers of the
// target store and never feed back into the sync core.
package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftco/lightspeed-sync/internal/models"
	"github.com/craftco/lightspeed-sync/internal/store"
	"github.com/craftco/lightspeed-sync/pkg/metrics"
)

// StatusReader is the dashboard's read contract against the target store.
type StatusReader interface {
	SyncStatuses(ctx context.Context, now time.Time) ([]store.EntityStatus, error)
	RecentSyncLog(ctx context.Context, limit int) ([]models.SyncLogEntry, error)
	Ping(ctx context.Context) error
}

// Dashboard is the thin monitoring surface over sync_state and sync_log.
type Dashboard struct {
	statuses StatusReader
	sessions *SessionManager
	password string
	logger   *slog.Logger
	now      func() time.Time
}

func NewDashboard(statuses StatusReader, sessions *SessionManager, password string, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		statuses: statuses,
		sessions: sessions,
		password: password,
		logger:   logger,
		now:      time.Now,
	}
}

// Routes builds the dashboard router.
func (d *Dashboard) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/login", d.handleLoginForm)
	r.Post("/login", d.handleLogin)
	r.Get("/logout", d.handleLogout)
	r.Get("/health", d.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(d.sessions.RequireAuth)
		r.Get("/dashboard", d.handleDashboard)
	})

	return r
}

func (d *Dashboard) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginTemplate.Execute(w, nil)
}

func (d *Dashboard) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !passwordsMatch(r.FormValue("password"), d.password) {
		d.logger.Warn("Dashboard login rejected", "remote", r.RemoteAddr)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_ = loginTemplate.Execute(w, map[string]any{"Error": "Invalid password. Please try again."})
		return
	}

	token, err := d.sessions.Issue(d.now())
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	d.sessions.SetCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (d *Dashboard) handleLogout(w http.ResponseWriter, r *http.Request) {
	d.sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (d *Dashboard) handleDashboard(w http.ResponseWriter, r *http.Request) {
	statuses, err := d.statuses.SyncStatuses(r.Context(), d.now())
	if err != nil {
		d.logger.Error("Failed to load sync statuses", "error", err)
		http.Error(w, "failed to load sync status", http.StatusInternalServerError)
		return
	}
	recent, err := d.statuses.RecentSyncLog(r.Context(), 20)
	if err != nil {
		d.logger.Warn("Failed to load sync log", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = dashboardTemplate.Execute(w, map[string]any{
		"Statuses":  statuses,
		"RecentLog": recent,
		"Now":       d.now().UTC().Format(time.RFC3339),
	})
}

// handleHealth is the liveness endpoint: it only reports target store
// connectivity, never sync freshness.
func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := d.statuses.Ping(r.Context()); err != nil {
		metrics.StoreHealth.Set(0)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	metrics.StoreHealth.Set(1)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html><head><title>Sync Dashboard Login</title></head>
<body>
<h1>Sync Status Dashboard</h1>
{{if .Error}}<p style="color:red">{{.Error}}</p>{{end}}
<form method="POST" action="/login">
<label>Password: <input type="password" name="password" autofocus></label>
<button type="submit">Log in</button>
</form>
</body></html>`))

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html><head><title>Sync Status Dashboard</title>
<style>
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 6px 10px; }
.healthy { color: green; } .warning { color: orange; } .error { color: red; }
</style>
</head>
<body>
<h1>Sync Status Dashboard</h1>
<p>As of {{.Now}} &middot; <a href="/logout">Log out</a></p>
<table>
<tr><th>Entity</th><th>Status</th><th>Health</th><th>Last Sync</th><th>Error</th></tr>
{{range .Statuses}}
<tr>
<td>{{.Name}}</td>
<td>{{.Status}}</td>
<td class="{{.Health}}">{{.Health}}</td>
<td>{{if .LastSyncTime}}{{.LastSyncTime.UTC.Format "2006-01-02 15:04:05"}}{{else}}Never{{end}}</td>
<td>{{.ErrorMessage}}</td>
</tr>
{{end}}
</table>
<h2>Recent Sync Activity</h2>
<table>
<tr><th>When</th><th>Entity</th><th>Action</th><th>Status</th><th>Records</th><th>Duration (s)</th></tr>
{{range .RecentLog}}
<tr>
<td>{{.Timestamp.UTC.Format "2006-01-02 15:04:05"}}</td>
<td>{{.EntityType}}</td>
<td>{{.Action}}</td>
<td>{{.Status}}</td>
<td>{{.RecordsProcessed}}</td>
<td>{{printf "%.2f" .DurationSeconds}}</td>
</tr>
{{end}}
</table>
</body></html>`))
