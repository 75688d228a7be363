package models

import "time"

// SyncStatus is the terminal state of the most recent sync attempt.
type SyncStatus string

const (
	StatusNeverSynced SyncStatus = "never_synced"
	StatusSuccess     SyncStatus = "success"
	StatusFailed      SyncStatus = "failed"
)

// Health classifies cursor freshness for the monitoring surface.
type Health string

const (
	HealthHealthy Health = "healthy"
	HealthWarning Health = "warning"
	HealthError   Health = "error"
)

// Freshness thresholds for the derived health classification.
const (
	HealthyWithin = 2 * time.Hour
	WarningWithin = 12 * time.Hour
)

// SyncCursor is the durable per-entity sync progress record. LastVersion is
// only a valid resume point when Status is StatusSuccess; a failed attempt
// never advances it.
type SyncCursor struct {
	EntityType   EntityType
	LastVersion  *int64
	LastSyncTime *time.Time
	Status       SyncStatus
	ErrorMessage string
}

// NewCursor returns the default cursor for an entity that has never synced.
func NewCursor(et EntityType) SyncCursor {
	return SyncCursor{EntityType: et, Status: StatusNeverSynced}
}

// ResumeVersion returns the version to fetch after, or 0 for a full fetch.
// A cursor left by a failed run is not trusted as a resume point.
func (c SyncCursor) ResumeVersion() int64 {
	if c.Status != StatusSuccess || c.LastVersion == nil {
		return 0
	}
	return *c.LastVersion
}

// HealthAt derives the freshness classification relative to now.
func (c SyncCursor) HealthAt(now time.Time) Health {
	if c.LastSyncTime == nil {
		return HealthError
	}
	age := now.Sub(*c.LastSyncTime)
	switch {
	case age < HealthyWithin:
		return HealthHealthy
	case age < WarningWithin:
		return HealthWarning
	default:
		return HealthError
	}
}
