package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the page table and its indexes if they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Pages + ` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			widgets JSONB NOT NULL DEFAULT '[]'::jsonb,
			settings JSONB NOT NULL DEFAULT '{}'::jsonb,
			seo JSONB NOT NULL DEFAULT '{}'::jsonb,
			widget_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Pages + `_updated_at ON ` + tables.Pages + ` (updated_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops the page table
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Pages+" CASCADE"); err != nil {
		return fmt.Errorf("drop %s: %w", tables.Pages, err)
	}
	return nil
}

// ClearPages deletes every stored page and keeps the schema
func ClearPages(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Pages); err != nil {
		return fmt.Errorf("clear %s: %w", tables.Pages, err)
	}
	return nil
}
