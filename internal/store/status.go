package store

import (
	"context"
	"time"

	"github.com/craftco/lightspeed-sync/internal/models"
)

// EntityStatus is one row of the monitoring surface: the cursor plus the
// derived freshness classification.
type EntityStatus struct {
	EntityType   models.EntityType `json:"entity_type"`
	Name         string            `json:"name"`
	Table        string            `json:"table"`
	Status       models.SyncStatus `json:"status"`
	Health       models.Health     `json:"health"`
	LastSyncTime *time.Time        `json:"last_sync_time"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// SyncStatuses reads the cursor for every entity type in cycle order and
// derives its health. A missing cursor row shows up as never_synced/error
// rather than failing the whole view.
func (s *Store) SyncStatuses(ctx context.Context, now time.Time) ([]EntityStatus, error) {
	statuses := make([]EntityStatus, 0, len(models.SyncOrder))
	for _, et := range models.SyncOrder {
		cursor, err := s.GetCursor(ctx, et)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, EntityStatus{
			EntityType:   et,
			Name:         et.DisplayName(),
			Table:        et.Table(),
			Status:       cursor.Status,
			Health:       cursor.HealthAt(now),
			LastSyncTime: cursor.LastSyncTime,
			ErrorMessage: cursor.ErrorMessage,
		})
	}
	return statuses, nil
}
