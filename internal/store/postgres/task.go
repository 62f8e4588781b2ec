package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/focusdesk/internal/domain"
)

var taskColumns = []string{"workspace", "id", "title", "completed", "created_at_ms", "position"}

type TaskRepo struct {
	pool DB
}

func NewTaskRepo(pool DB) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// Load returns the workspace's tasks in manual order. It returns (nil, nil)
// when the workspace has never been saved.
func (r *TaskRepo) Load(ctx context.Context, workspace string) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, completed, created_at_ms
		 FROM focus_tasks WHERE workspace = $1
		 ORDER BY position`,
		workspace,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.Load: %w", err)
	}
	defer rows.Close()

	var records []domain.TaskRecord
	for rows.Next() {
		var rec domain.TaskRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Completed, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("taskRepo.Load: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskRepo.Load: rows: %w", err)
	}
	if records == nil {
		return nil, nil
	}

	tasks, dropped := domain.RecordsToTasks(records)
	if dropped > 0 {
		log.Warn().Str("workspace", workspace).Int("dropped", dropped).Msg("skipped invalid task records")
	}
	return tasks, nil
}

// Save replaces the workspace's snapshot in one transaction.
func (r *TaskRepo) Save(ctx context.Context, workspace string, tasks []domain.Task) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("taskRepo.Save: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM focus_tasks WHERE workspace = $1`, workspace); err != nil {
		return fmt.Errorf("taskRepo.Save: delete: %w", err)
	}

	if len(tasks) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"focus_tasks"},
			taskColumns,
			pgx.CopyFromRows(TaskRows(workspace, tasks)),
		)
		if err != nil {
			return fmt.Errorf("taskRepo.Save: copy: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("taskRepo.Save: commit: %w", err)
	}
	return nil
}

// TaskRows converts a snapshot into COPY rows matching taskColumns. The
// slice index becomes the position column.
func TaskRows(workspace string, tasks []domain.Task) [][]any {
	rows := make([][]any, len(tasks))
	for i, t := range tasks {
		rows[i] = []any{workspace, t.ID, t.Title, t.Completed, createdAtMillis(t.CreatedAt), int32(i)}
	}
	return rows
}

func createdAtMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
