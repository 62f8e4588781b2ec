// Package file persists the task list and theme as files in a data
// directory, one subdirectory per workspace.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/focusdesk/internal/domain"
)

const (
	tasksFile = "tasks.json"
	themeFile = "theme"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

// New returns a Store rooted at dataDir/workspace, creating it if needed.
func New(dataDir, workspace string) (*Store, error) {
	workspace = strings.TrimSpace(workspace)
	if workspace == "" {
		workspace = "default"
	}
	dir := filepath.Join(dataDir, workspace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file.New: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) LoadTasks(_ context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, tasksFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file.Store.LoadTasks: %w", err)
	}

	tasks, dropped, err := domain.DecodeTasks(b)
	if err != nil {
		return nil, fmt.Errorf("file.Store.LoadTasks: %w", err)
	}
	if dropped > 0 {
		log.Warn().Str("dir", s.dir).Int("dropped", dropped).Msg("skipped invalid task records")
	}
	return tasks, nil
}

func (s *Store) SaveTasks(_ context.Context, tasks []domain.Task) error {
	b, err := domain.EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("file.Store.SaveTasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(tasksFile, b); err != nil {
		return fmt.Errorf("file.Store.SaveTasks: %w", err)
	}
	return nil
}

func (s *Store) LoadTheme(_ context.Context) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, themeFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("file.Store.LoadTheme: %w", err)
	}

	theme, err := domain.ParseTheme(strings.TrimSpace(string(b)))
	if err != nil {
		return "", fmt.Errorf("file.Store.LoadTheme: %w", err)
	}
	return theme, nil
}

func (s *Store) SaveTheme(_ context.Context, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(themeFile, []byte(theme)); err != nil {
		return fmt.Errorf("file.Store.SaveTheme: %w", err)
	}
	return nil
}

// writeLocked replaces name atomically through a temp file in the same
// directory.
func (s *Store) writeLocked(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}
