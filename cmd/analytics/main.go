// The analytics binary serves read-only aggregation endpoints over the
// synced sales, line-item and product tables, filtered by a caller-supplied
// date range. It contains no synchronization logic.
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

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg, "analytics.log")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		slog.Error("FATAL: Failed to connect to target store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	analytics := web.NewAnalytics(st, logger)

	server := &http.Server{
		Addr:              cfg.AnalyticsAddr,
		Handler:           analytics.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Analytics server listening", "addr", cfg.AnalyticsAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Analytics server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Analytics server shut down cleanly")
}
