// The sync binary runs exactly one incremental sync cycle over all six
// entity types and exits. Scheduling (and therefore retry) is external:
// run it from cron, and the version cursors make each invocation resume
// after the last success.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/craftco/lightspeed-sync/internal/broker"
	"github.com/craftco/lightspeed-sync/internal/config"
	"github.com/craftco/lightspeed-sync/internal/lightspeed"
	"github.com/craftco/lightspeed-sync/internal/store"
	"github.com/craftco/lightspeed-sync/internal/syncer"
	"github.com/craftco/lightspeed-sync/pkg/infra"
)

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg, "sync.log")
	slog.SetDefault(logger)

	if err := cfg.ValidateSync(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := connectStore(ctx, cfg, logger)
	if err != nil {
		slog.Error("FATAL: Failed to connect to target store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	client := lightspeed.NewClient(cfg.LightspeedBaseURL, cfg.LightspeedToken, cfg.RequestInterval, logger)

	// Pre-flight gate: do not start a cycle against an unreachable upstream.
	if !client.TestConnection(ctx) {
		slog.Error("FATAL: Lightspeed API connection test failed")
		os.Exit(1)
	}

	var events syncer.EventSink
	if cfg.EventsAMQPURL != "" {
		pub, err := broker.NewEventPublisher(cfg.EventsAMQPURL, logger)
		if err != nil {
			// Events are best-effort; a missing broker must not block the sync.
			slog.Warn("Sync event publisher unavailable, continuing without events", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	sync := syncer.NewSynchronizer(client, st, events, cfg.BatchSize, logger)
	summary := sync.RunCycle(ctx)

	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Printf("FAIL %-16s %v\n", r.EntityType, r.Err)
		} else {
			fmt.Printf("OK   %-16s %d records in %.2fs\n", r.EntityType, r.Records, r.Duration.Seconds())
		}
	}
	fmt.Printf("Sync cycle complete: %d/%d succeeded\n", summary.Succeeded(), len(summary.Results))

	if !summary.AllSucceeded() || len(summary.Results) < 6 {
		os.Exit(1)
	}
}

// connectStore retries the initial store connection a few times with
// backoff so a briefly restarting database does not fail the whole run.
func connectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	backoff := infra.NewBackoff(1*time.Second, 30*time.Second)
	for {
		st, err := store.New(ctx, cfg.DatabaseURL, logger)
		if err == nil {
			return st, nil
		}
		if backoff.Attempt() >= 4 {
			return nil, err
		}
		logger.Warn("Target store connection failed, retrying", "attempt", backoff.Attempt()+1, "error", err)
		if werr := backoff.Wait(ctx); werr != nil {
			return nil, werr
		}
	}
}
