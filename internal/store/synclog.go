package store

import (
	"context"
	"fmt"

	"github.com/craftco/lightspeed-sync/internal/models"
)

// StartSyncLog appends a started row to the audit trail and returns its id
// for the terminal update.
func (s *Store) StartSyncLog(ctx context.Context, et models.EntityType, action, correlationID string) (int64, error) {
	query := `
		INSERT INTO sync_log (entity_type, action, status, timestamp, correlation_id)
		VALUES ($1, $2, $3, now(), $4)
		RETURNING id
	`
	var id int64
	err := s.pool.QueryRow(ctx, query, string(et), action, models.LogStarted, correlationID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting sync log for %s: %w", et, err)
	}
	return id, nil
}

// CompleteSyncLog applies the single terminal update to a started row. The
// row is never touched again afterwards.
func (s *Store) CompleteSyncLog(ctx context.Context, id int64, status string, durationSeconds float64, recordsProcessed int, errDetails string) error {
	query := `
		UPDATE sync_log
		SET status = $2,
		    duration_seconds = $3,
		    records_processed = $4,
		    error_details = NULLIF($5, '')
		WHERE id = $1
	`
	if _, err := s.pool.Exec(ctx, query, id, status, durationSeconds, recordsProcessed, errDetails); err != nil {
		return fmt.Errorf("completing sync log %d: %w", id, err)
	}
	return nil
}

// RecentSyncLog returns the latest audit entries for the dashboard.
func (s *Store) RecentSyncLog(ctx context.Context, limit int) ([]models.SyncLogEntry, error) {
	query := `
		SELECT id, entity_type, action, status, timestamp,
		       COALESCE(duration_seconds, 0), COALESCE(records_processed, 0),
		       COALESCE(error_details, ''), COALESCE(correlation_id, '')
		FROM sync_log
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("reading sync log: %w", err)
	}
	defer rows.Close()

	var entries []models.SyncLogEntry
	for rows.Next() {
		var e models.SyncLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.Action, &e.Status, &e.Timestamp,
			&e.DurationSeconds, &e.RecordsProcessed, &e.ErrorDetails, &e.CorrelationID); err != nil {
			return nil, fmt.Errorf("scanning sync log row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
