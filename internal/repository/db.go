package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates and pings a new pgx connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the service tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS shipments (
			idempotency_key  TEXT PRIMARY KEY,
			order_id         TEXT NOT NULL,
			status           TEXT NOT NULL,
			tracking_numbers TEXT[] NOT NULL DEFAULT '{}',
			label_format     TEXT NOT NULL DEFAULT '',
			labels           BYTEA[] NOT NULL DEFAULT '{}',
			created_at       TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create shipments table: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS print_jobs (
			id               BIGSERIAL PRIMARY KEY,
			order_id         TEXT NOT NULL,
			idempotency_key  TEXT NOT NULL,
			piece            INT NOT NULL,
			payload          BYTEA NOT NULL,
			printer_addr     TEXT NOT NULL,
			state            TEXT NOT NULL,
			attempts         INT NOT NULL DEFAULT 0,
			last_error       TEXT NOT NULL DEFAULT '',
			first_attempt_at TIMESTAMP WITHOUT TIME ZONE,
			last_attempt_at  TIMESTAMP WITHOUT TIME ZONE,
			created_at       TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL,
			UNIQUE (idempotency_key, piece)
		);
	`)
	if err != nil {
		return fmt.Errorf("create print_jobs table: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS fulfillment_runs (
			idempotency_key     TEXT PRIMARY KEY,
			order_id            TEXT NOT NULL,
			state               TEXT NOT NULL,
			fail_reason         TEXT NOT NULL DEFAULT '',
			correlation_id      TEXT NOT NULL DEFAULT '',
			tracking_numbers    TEXT[] NOT NULL DEFAULT '{}',
			callback_delivered  BOOLEAN NOT NULL DEFAULT false,
			callback_last_error TEXT NOT NULL DEFAULT '',
			events              JSONB NOT NULL DEFAULT '[]',
			started_at          TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL,
			updated_at          TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create fulfillment_runs table: %w", err)
	}

	return nil
}
