package postgres

import (
	"context"
	"fmt"

	"github.com/gosuda/focusdesk/internal/domain"
)

// WorkspaceStore adapts the repositories to domain.Persistence for a single
// workspace.
type WorkspaceStore struct {
	name        string
	tasks       *TaskRepo
	preferences *PreferenceRepo
}

func (w *WorkspaceStore) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	return w.tasks.Load(ctx, w.name)
}

func (w *WorkspaceStore) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	return w.tasks.Save(ctx, w.name, tasks)
}

func (w *WorkspaceStore) LoadTheme(ctx context.Context) (domain.Theme, error) {
	v, ok, err := w.preferences.Get(ctx, w.name, PreferenceTheme)
	if err != nil || !ok {
		return "", err
	}
	theme, err := domain.ParseTheme(v)
	if err != nil {
		return "", fmt.Errorf("postgres.WorkspaceStore.LoadTheme: %w", err)
	}
	return theme, nil
}

func (w *WorkspaceStore) SaveTheme(ctx context.Context, theme domain.Theme) error {
	return w.preferences.Set(ctx, w.name, PreferenceTheme, string(theme))
}
