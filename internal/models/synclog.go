package models

import "time"

// Sync log attempt outcomes. A row is inserted as LogStarted and receives
// exactly one terminal update; it is never mutated afterwards.
const (
	LogStarted   = "started"
	LogCompleted = "completed"
	LogFailed    = "failed"
)

// Sync log actions distinguish the regular delta run from one-off backfills.
const (
	ActionIncrementalSync = "incremental_sync"
	ActionBackfill        = "backfill"
)

// SyncLogEntry is one row of the append-only sync audit trail. It exists for
// debugging and the dashboard, never for recovery decisions.
type SyncLogEntry struct {
	ID               int64
	EntityType       EntityType
	Action           string
	Status           string
	Timestamp        time.Time
	DurationSeconds  float64
	RecordsProcessed int
	ErrorDetails     string
	CorrelationID    string
}
