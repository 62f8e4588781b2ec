// Package memory provides in-process persistence and pub/sub. State does not
// survive a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/gosuda/focusdesk/internal/domain"
)

// Store keeps the latest task snapshot and theme in memory.
type Store struct {
	mu     sync.Mutex
	tasks  []domain.Task
	stored bool
	theme  domain.Theme
	saves  int
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreWith returns a Store pre-seeded as if tasks had been saved.
func NewStoreWith(tasks []domain.Task, theme domain.Theme) *Store {
	return &Store{tasks: slices.Clone(tasks), stored: true, theme: theme}
}

func (s *Store) LoadTasks(_ context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stored {
		return nil, nil
	}
	return slices.Clone(s.tasks), nil
}

func (s *Store) SaveTasks(_ context.Context, tasks []domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = slices.Clone(tasks)
	s.stored = true
	s.saves++
	return nil
}

func (s *Store) LoadTheme(_ context.Context) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme, nil
}

func (s *Store) SaveTheme(_ context.Context, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}

// Saves returns how many task snapshots were written.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
