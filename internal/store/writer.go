package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/craftco/lightspeed-sync/internal/models"
)

const (
	// DefaultBatchSize bounds a single multi-row statement so payloads stay
	// well under Postgres parameter limits for the widest entity table.
	DefaultBatchSize = 100

	// interChunkDelay throttles write pressure between chunks.
	interChunkDelay = 100 * time.Millisecond
)

// Upsert writes records in fixed-size chunks, insert-or-replace keyed by the
// upstream id. The first failing chunk aborts the remainder; there is no
// partial-batch retry in this layer, the next scheduled run retries by
// re-fetching from the cursor. Returns the number of rows written.
func (s *Store) Upsert(ctx context.Context, records []models.TargetRecord, batchSize int) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	table := records[0].TargetTable()
	columns := records[0].Columns()

	written := 0
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		chunk := records[start:end]

		query, args, err := buildUpsert(table, columns, chunk)
		if err != nil {
			return written, err
		}
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upserting chunk into %s (rows %d-%d): %w", table, start, end-1, err)
		}
		written += len(chunk)

		s.logger.Debug("Upserted chunk", "table", table, "rows", len(chunk), "total", written)

		if end < len(records) {
			select {
			case <-time.After(interChunkDelay):
			case <-ctx.Done():
				return written, ctx.Err()
			}
		}
	}
	return written, nil
}

// buildUpsert generates one multi-row INSERT ... ON CONFLICT (id) DO UPDATE
// statement for a chunk of records sharing a table. The first column is the
// primary key and is excluded from the SET clause; updated_at is always
// touched so row-level freshness reflects the last sync that saw the row.
func buildUpsert(table string, columns []string, records []models.TargetRecord) (string, []any, error) {
	if len(records) == 0 {
		return "", nil, fmt.Errorf("no records provided for upsert on table %s", table)
	}

	var sb strings.Builder
	args := make([]any, 0, len(records)*len(columns))

	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	for i, rec := range records {
		if rec.TargetTable() != table {
			return "", nil, fmt.Errorf("mixed tables in upsert chunk: %s and %s", table, rec.TargetTable())
		}
		vals := rec.Values()
		if len(vals) != len(columns) {
			return "", nil, fmt.Errorf("record for %s has %d values for %d columns", table, len(vals), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range vals {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*len(columns)+j+1)
		}
		sb.WriteString(")")
		args = append(args, vals...)
	}

	sb.WriteString(" ON CONFLICT (")
	sb.WriteString(columns[0])
	sb.WriteString(") DO UPDATE SET ")
	for i, col := range columns[1:] {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = EXCLUDED.%s", col, col)
	}
	sb.WriteString(", updated_at = now()")

	return sb.String(), args, nil
}
