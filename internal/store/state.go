package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/craftco/lightspeed-sync/internal/models"
)

// GetCursor loads the sync cursor for an entity type. A missing row is not
// an error: the entity simply has never synced.
func (s *Store) GetCursor(ctx context.Context, et models.EntityType) (models.SyncCursor, error) {
	cursor := models.NewCursor(et)

	query := `
		SELECT last_version, last_sync_time, status, error_message
		FROM sync_state
		WHERE entity_type = $1
	`
	var errMsg *string
	err := s.pool.QueryRow(ctx, query, string(et)).Scan(
		&cursor.LastVersion,
		&cursor.LastSyncTime,
		&cursor.Status,
		&errMsg,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return cursor, nil
	}
	if err != nil {
		return cursor, fmt.Errorf("reading sync state for %s: %w", et, err)
	}
	if errMsg != nil {
		cursor.ErrorMessage = *errMsg
	}
	return cursor, nil
}

// PutCursor upserts the cursor row for an entity type. lastVersion is only
// passed on success; nil keeps whatever version the row already holds, so a
// failed attempt can never regress or poison the resume point.
func (s *Store) PutCursor(ctx context.Context, et models.EntityType, status models.SyncStatus, lastVersion *int64, errMsg string) error {
	query := `
		INSERT INTO sync_state (entity_type, last_version, last_sync_time, status, error_message, updated_at)
		VALUES ($1, $2, now(), $3, NULLIF($4, ''), now())
		ON CONFLICT (entity_type) DO UPDATE SET
			last_version   = COALESCE($2, sync_state.last_version),
			last_sync_time = now(),
			status         = $3,
			error_message  = NULLIF($4, ''),
			updated_at     = now()
	`
	if _, err := s.pool.Exec(ctx, query, string(et), lastVersion, string(status), errMsg); err != nil {
		return fmt.Errorf("updating sync state for %s: %w", et, err)
	}
	return nil
}
