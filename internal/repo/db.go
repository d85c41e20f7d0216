package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool создаёт пул соединений с Postgres и проверяет доступность БД.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// schema — таблица истории выполнений.
const schema = `
	CREATE TABLE IF NOT EXISTS executions (
		id          uuid PRIMARY KEY,
		input       text        NOT NULL,
		tier        text,
		status      text        NOT NULL,
		result      text,
		error       text,
		num_nodes   integer     NOT NULL,
		num_edges   integer     NOT NULL,
		duration_ms bigint      NOT NULL,
		created_at  timestamptz NOT NULL
	);
	CREATE INDEX IF NOT EXISTS executions_created_at_idx ON executions (created_at DESC);
`

// EnsureSchema создаёт таблицы, если их нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
