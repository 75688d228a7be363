package models

import (
	"testing"
	"time"
)

func TestResumeVersion(t *testing.T) {
	v := int64(42)
	tests := []struct {
		name   string
		cursor SyncCursor
		want   int64
	}{
		{"never synced", NewCursor(EntityCustomers), 0},
		{"success with version", SyncCursor{Status: StatusSuccess, LastVersion: &v}, 42},
		{"success without version", SyncCursor{Status: StatusSuccess}, 0},
		{"failed cursor is not trusted", SyncCursor{Status: StatusFailed, LastVersion: &v}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cursor.ResumeVersion(); got != tt.want {
				t.Errorf("ResumeVersion() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHealthAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(age time.Duration) *time.Time {
		ts := now.Add(-age)
		return &ts
	}

	tests := []struct {
		name string
		last *time.Time
		want Health
	}{
		{"never synced", nil, HealthError},
		{"just synced", at(time.Minute), HealthHealthy},
		{"just under healthy bound", at(HealthyWithin - time.Second), HealthHealthy},
		{"at healthy bound", at(HealthyWithin), HealthWarning},
		{"just under warning bound", at(WarningWithin - time.Second), HealthWarning},
		{"at warning bound", at(WarningWithin), HealthError},
		{"days stale", at(72 * time.Hour), HealthError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SyncCursor{LastSyncTime: tt.last}
			if got := c.HealthAt(now); got != tt.want {
				t.Errorf("HealthAt() = %s, want %s", got, tt.want)
			}
		})
	}
}
