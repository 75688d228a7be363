// The backfill binary is the one-off historical import: it fetches every
// entity in full, ignoring the version cursors, then resets the cursors to
// the observed max versions. Use it for initial setup or to repair gaps;
// the scheduled sync binary never needs it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/craftco/lightspeed-sync/internal/config"
	"github.com/craftco/lightspeed-sync/internal/lightspeed"
	"github.com/craftco/lightspeed-sync/internal/store"
	"github.com/craftco/lightspeed-sync/internal/syncer"
	"github.com/craftco/lightspeed-sync/pkg/infra"
)

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg, "backfill.log")
	slog.SetDefault(logger)

	if err := cfg.ValidateSync(); err != nil {
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

	client := lightspeed.NewClient(cfg.LightspeedBaseURL, cfg.LightspeedToken, cfg.RequestInterval, logger)
	if !client.TestConnection(ctx) {
		slog.Error("FATAL: Lightspeed API connection test failed")
		os.Exit(1)
	}

	slog.Warn("Starting full historical backfill; this ignores every version cursor")

	sync := syncer.NewSynchronizer(client, st, nil, cfg.BatchSize, logger)
	summary := sync.RunBackfill(ctx)

	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Printf("FAIL %-16s %v\n", r.EntityType, r.Err)
		} else {
			fmt.Printf("OK   %-16s %d records in %.2fs\n", r.EntityType, r.Records, r.Duration.Seconds())
		}
	}
	fmt.Printf("Backfill complete: %d/%d succeeded\n", summary.Succeeded(), len(summary.Results))

	if !summary.AllSucceeded() || len(summary.Results) < 6 {
		os.Exit(1)
	}
}
