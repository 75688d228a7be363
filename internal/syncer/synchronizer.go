// Package syncer drives one sync cycle: for each entity type in dependency
// order, read cursor, fetch the delta, transform, upsert, advance the
// cursor and record the attempt. A failed entity never stops the cycle;
// re-invocation on a schedule is the retry mechanism, so there is no
// in-process retry loop across attempts.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/craftco/lightspeed-sync/internal/broker"
	"github.com/craftco/lightspeed-sync/internal/lightspeed"
	"github.com/craftco/lightspeed-sync/internal/models"
	"github.com/craftco/lightspeed-sync/pkg/metrics"
)

// SourceClient defines the contract with the upstream API.
type SourceClient interface {
	Customers(ctx context.Context, afterVersion int64) ([]lightspeed.RawCustomer, error)
	Outlets(ctx context.Context) ([]lightspeed.RawOutlet, error)
	Products(ctx context.Context, afterVersion int64) ([]lightspeed.RawProduct, error)
	Sales(ctx context.Context, afterVersion int64) ([]lightspeed.RawSale, error)
	Inventory(ctx context.Context) ([]lightspeed.RawInventory, error)
	TestConnection(ctx context.Context) bool
}

// Repository defines the contract for target store persistence: the batch
// writer, the cursor store and the audit log.
type Repository interface {
	GetCursor(ctx context.Context, et models.EntityType) (models.SyncCursor, error)
	PutCursor(ctx context.Context, et models.EntityType, status models.SyncStatus, lastVersion *int64, errMsg string) error
	StartSyncLog(ctx context.Context, et models.EntityType, action, correlationID string) (int64, error)
	CompleteSyncLog(ctx context.Context, id int64, status string, durationSeconds float64, recordsProcessed int, errDetails string) error
	Upsert(ctx context.Context, records []models.TargetRecord, batchSize int) (int, error)
}

// EventSink receives per-entity outcome events. Optional.
type EventSink interface {
	Publish(ctx context.Context, event broker.SyncEvent) error
}

// Synchronizer orchestrates the movement of data from the upstream API into
// the target store, one entity type at a time.
type Synchronizer struct {
	api       SourceClient
	repo      Repository
	events    EventSink
	batchSize int
	logger    *slog.Logger
}

// NewSynchronizer wires the orchestrator. events may be nil.
func NewSynchronizer(api SourceClient, repo Repository, events EventSink, batchSize int, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		api:       api,
		repo:      repo,
		events:    events,
		batchSize: batchSize,
		logger:    logger,
	}
}

// EntityResult is the outcome of one entity sync within a cycle.
type EntityResult struct {
	EntityType models.EntityType
	Records    int
	Duration   time.Duration
	Err        error
}

// CycleSummary reports one full pass over all entity types.
type CycleSummary struct {
	CorrelationID string
	Results       []EntityResult
}

// Succeeded counts entities that completed without error.
func (cs CycleSummary) Succeeded() int {
	n := 0
	for _, r := range cs.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// AllSucceeded reports whether every attempted entity completed.
func (cs CycleSummary) AllSucceeded() bool {
	return cs.Succeeded() == len(cs.Results)
}

// RunCycle performs one sequential pass over all six entity types in
// dependency order. One failing entity is recorded and the cycle moves on;
// only context cancellation stops the pass early.
func (s *Synchronizer) RunCycle(ctx context.Context) CycleSummary {
	return s.run(ctx, models.ActionIncrementalSync, false)
}

// RunBackfill is the one-off historical import: every entity is fetched in
// full regardless of its cursor, then the cursor is reset to the observed
// max version. Not part of the scheduled sync path.
func (s *Synchronizer) RunBackfill(ctx context.Context) CycleSummary {
	return s.run(ctx, models.ActionBackfill, true)
}

func (s *Synchronizer) run(ctx context.Context, action string, ignoreCursor bool) CycleSummary {
	summary := CycleSummary{CorrelationID: uuid.NewString()}
	logger := s.logger.With("correlation_id", summary.CorrelationID)

	logger.Info("Starting sync cycle", "action", action, "entities", len(models.SyncOrder))

	for _, et := range models.SyncOrder {
		if ctx.Err() != nil {
			logger.Warn("Sync cycle interrupted", "error", ctx.Err())
			break
		}
		summary.Results = append(summary.Results, s.syncEntity(ctx, et, summary.CorrelationID, action, ignoreCursor, logger))
	}

	logger.Info("Sync cycle finished",
		"succeeded", summary.Succeeded(),
		"total", len(summary.Results),
	)
	return summary
}

// syncEntity runs the per-entity state machine:
// fetch -> transform -> write -> cursor advance, with the cursor only moving
// after the batch is durably written. Failure leaves the previous version
// untouched so the next run resumes from the last good point.
func (s *Synchronizer) syncEntity(ctx context.Context, et models.EntityType, correlationID, action string, ignoreCursor bool, logger *slog.Logger) EntityResult {
	start := time.Now()
	l := logger.With("entity", et)
	l.Info("Syncing entity")

	logID := s.startLog(ctx, et, action, correlationID, l)
	processed, err := s.runEntity(ctx, et, ignoreCursor, l)
	duration := time.Since(start)

	result := EntityResult{EntityType: et, Records: processed, Duration: duration, Err: err}

	if err != nil {
		l.Error("Entity sync failed", "error", err, "duration_ms", duration.Milliseconds())
		metrics.EntitySyncs.WithLabelValues("failed", string(et)).Inc()

		if putErr := s.repo.PutCursor(ctx, et, models.StatusFailed, nil, err.Error()); putErr != nil {
			l.Error("Failed to record failed cursor state", "error", putErr)
		}
		s.finishLog(ctx, logID, models.LogFailed, duration, processed, err.Error(), l)
		s.publish(ctx, et, models.StatusFailed, processed, duration, correlationID, err.Error(), l)
		return result
	}

	l.Info("Entity sync completed",
		"records", processed,
		"duration_ms", duration.Milliseconds(),
	)
	metrics.EntitySyncs.WithLabelValues("success", string(et)).Inc()
	metrics.SyncDuration.WithLabelValues(string(et)).Observe(duration.Seconds())

	s.finishLog(ctx, logID, models.LogCompleted, duration, processed, "", l)
	s.publish(ctx, et, models.StatusSuccess, processed, duration, correlationID, "", l)
	return result
}

// runEntity holds the correctness-critical path; every returned error flips
// the cursor to failed in the caller.
func (s *Synchronizer) runEntity(ctx context.Context, et models.EntityType, ignoreCursor bool, l *slog.Logger) (int, error) {
	var after int64
	if !ignoreCursor {
		cursor, err := s.repo.GetCursor(ctx, et)
		if err != nil {
			return 0, err
		}
		after = cursor.ResumeVersion()
		if after > 0 {
			l.Info("Resuming from version cursor", "after_version", after)
		}
	}

	res, err := s.fetch(ctx, et, after)
	if err != nil {
		return 0, err
	}
	metrics.RecordsFetched.WithLabelValues(string(et)).Add(float64(len(res.records)))

	// Nothing new upstream: report success without touching the version so
	// the cursor can never regress on an empty delta.
	if len(res.records) == 0 {
		l.Info("No new records since last sync")
		return 0, s.repo.PutCursor(ctx, et, models.StatusSuccess, nil, "")
	}

	written, err := s.repo.Upsert(ctx, res.records, s.batchSize)
	if err != nil {
		return 0, err
	}
	metrics.RecordsUpserted.WithLabelValues(string(et)).Add(float64(written))

	var advanceTo *int64
	if res.maxVersion > 0 {
		v := res.maxVersion
		advanceTo = &v
	}
	if err := s.repo.PutCursor(ctx, et, models.StatusSuccess, advanceTo, ""); err != nil {
		// Data is durably written; the stale cursor just means the next run
		// re-fetches an already-upserted window, which upsert absorbs.
		return written, err
	}
	return written, nil
}

// startLog appends the started audit row. Audit failures never abort the
// data sync itself.
func (s *Synchronizer) startLog(ctx context.Context, et models.EntityType, action, correlationID string, l *slog.Logger) int64 {
	id, err := s.repo.StartSyncLog(ctx, et, action, correlationID)
	if err != nil {
		l.Warn("Failed to write sync log start", "error", err)
		return 0
	}
	return id
}

func (s *Synchronizer) finishLog(ctx context.Context, logID int64, status string, duration time.Duration, records int, errDetails string, l *slog.Logger) {
	if logID == 0 {
		return
	}
	if err := s.repo.CompleteSyncLog(ctx, logID, status, duration.Seconds(), records, errDetails); err != nil {
		l.Warn("Failed to write sync log completion", "error", err)
	}
}

func (s *Synchronizer) publish(ctx context.Context, et models.EntityType, status models.SyncStatus, records int, duration time.Duration, correlationID, errMsg string, l *slog.Logger) {
	if s.events == nil {
		return
	}
	event := broker.SyncEvent{
		CorrelationID:    correlationID,
		EntityType:       et,
		Status:           status,
		RecordsProcessed: records,
		DurationSeconds:  duration.Seconds(),
		Timestamp:        time.Now().UTC(),
		Error:            errMsg,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		l.Warn("Failed to publish sync event", "error", err)
	}
}
