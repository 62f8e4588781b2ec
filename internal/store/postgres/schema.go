package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS focus_tasks (
		workspace     TEXT    NOT NULL,
		id            TEXT    NOT NULL,
		title         TEXT    NOT NULL,
		completed     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at_ms BIGINT  NOT NULL,
		position      INTEGER NOT NULL,
		PRIMARY KEY (workspace, id)
	)`,
	`CREATE INDEX IF NOT EXISTS focus_tasks_workspace_position ON focus_tasks (workspace, position)`,
	`CREATE TABLE IF NOT EXISTS focus_preferences (
		workspace  TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (workspace, key)
	)`,
}

// Migrate creates the tables if they do not exist. It is safe to run on
// every start.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres.Store.Migrate: %w", err)
		}
	}
	return nil
}
