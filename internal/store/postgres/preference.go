package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const PreferenceTheme = "theme"

type PreferenceRepo struct {
	pool DB
}

func NewPreferenceRepo(pool DB) *PreferenceRepo {
	return &PreferenceRepo{pool: pool}
}

// Get returns the stored value and whether the key exists.
func (r *PreferenceRepo) Get(ctx context.Context, workspace, key string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM focus_preferences WHERE workspace = $1 AND key = $2`,
		workspace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("preferenceRepo.Get: %w", err)
	}
	return value, true, nil
}

func (r *PreferenceRepo) Set(ctx context.Context, workspace, key, value string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO focus_preferences (workspace, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (workspace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		workspace, key, value,
	)
	if err != nil {
		return fmt.Errorf("preferenceRepo.Set: %w", err)
	}
	return nil
}
