// Package store is the Postgres persistence layer: the batch upsert writer
// for entity tables, the sync_state cursor store, the append-only sync_log
// and the read paths backing the dashboards.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a pgx connection pool against the target database.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New opens a pool and verifies connectivity before returning.
func New(ctx context.Context, connString string, logger *slog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}

	logger.Info("Connected to Postgres")
	return &Store{pool: pool, logger: logger}, nil
}

// Ping reports target store connectivity, used by the liveness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.pool.Ping(pingCtx)
}

func (s *Store) Close() {
	s.pool.Close()
}
