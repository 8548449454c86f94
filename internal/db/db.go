// Package db owns the connection pool and the idempotent schema bootstrap.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS literature (
		id          BIGSERIAL PRIMARY KEY,
		type        TEXT NOT NULL,
		title       TEXT NOT NULL,
		price       BIGINT NOT NULL CHECK (price >= 0),
		sort_order  INT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(100) NOT NULL,
		description TEXT,
		quantity    INT CHECK (quantity >= 0),
		unit        VARCHAR(50),
		priority    TEXT NOT NULL DEFAULT 'medium'
		            CHECK (priority IN ('low','medium','high')),
		status      TEXT NOT NULL DEFAULT 'new'
		            CHECK (status IN ('new','in_progress','done','closed')),
		created_by  VARCHAR(100) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id            BIGSERIAL PRIMARY KEY,
		order_id      BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		literature_id BIGINT NOT NULL REFERENCES literature(id),
		quantity      INT NOT NULL CHECK (quantity > 0),
		price         BIGINT NOT NULL CHECK (price >= 0),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_by ON orders(created_by)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
}

// Migrate applies the schema. Every statement is IF NOT EXISTS so it is
// safe to run on every boot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
