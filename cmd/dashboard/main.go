// The dashboard binary serves the sync monitoring surface: password login,
// per-entity status with derived health, a liveness endpoint and Prometheus
// metrics. It is a read-only viewer over sync_state and sync_log.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/craftco/lightspeed-sync/internal/config"
	"github.com/craftco/lightspeed-sync/internal/store"
	"github.com/craftco/lightspeed-sync/internal/web"
	"github.com/craftco/lightspeed-sync/pkg/infra"
)

const sessionTTL = 12 * time.Hour

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg, "dashboard.log")
	slog.SetDefault(logger)

	if err := cfg.ValidateDashboard(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		slog.Error("FATAL: Failed to connect to target store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	sessions := web.NewSessionManager(cfg.DashboardSecretKey, sessionTTL)
	dashboard := web.NewDashboard(st, sessions, cfg.DashboardPassword, logger)

	server := &http.Server{
		Addr:              cfg.DashboardAddr,
		Handler:           dashboard.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Sync dashboard listening", "addr", cfg.DashboardAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Dashboard server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Dashboard shut down cleanly")
}
