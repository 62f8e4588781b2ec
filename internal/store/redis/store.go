package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/focusdesk/internal/domain"
)

// Store keeps one workspace's tasks and theme as plain string keys.
type Store struct {
	client    *redis.Client
	workspace string
}

func NewStore(client *redis.Client, workspace string) *Store {
	return &Store{client: client, workspace: workspace}
}

func (s *Store) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	b, err := s.client.Get(ctx, TasksKey(s.workspace)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Store.LoadTasks: %w", err)
	}

	tasks, dropped, err := domain.DecodeTasks(b)
	if err != nil {
		return nil, fmt.Errorf("redis.Store.LoadTasks: %w", err)
	}
	if dropped > 0 {
		log.Warn().Str("workspace", s.workspace).Int("dropped", dropped).Msg("skipped invalid task records")
	}
	return tasks, nil
}

func (s *Store) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	b, err := domain.EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("redis.Store.SaveTasks: %w", err)
	}
	if err := s.client.Set(ctx, TasksKey(s.workspace), b, 0).Err(); err != nil {
		return fmt.Errorf("redis.Store.SaveTasks: %w", err)
	}
	return nil
}

func (s *Store) LoadTheme(ctx context.Context) (domain.Theme, error) {
	v, err := s.client.Get(ctx, ThemeKey(s.workspace)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis.Store.LoadTheme: %w", err)
	}

	theme, err := domain.ParseTheme(v)
	if err != nil {
		return "", fmt.Errorf("redis.Store.LoadTheme: %w", err)
	}
	return theme, nil
}

func (s *Store) SaveTheme(ctx context.Context, theme domain.Theme) error {
	if err := s.client.Set(ctx, ThemeKey(s.workspace), string(theme), 0).Err(); err != nil {
		return fmt.Errorf("redis.Store.SaveTheme: %w", err)
	}
	return nil
}
