package store

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS feihualing_scores (
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		score BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS feihualing_rounds (
		session_id TEXT PRIMARY KEY,
		target_char TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ NOT NULL,
		participants JSONB NOT NULL DEFAULT '{}'::jsonb,
		poem_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feihualing_scores_session ON feihualing_scores (session_id)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
