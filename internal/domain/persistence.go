package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TaskPersister loads and saves full snapshots of the task collection.
// LoadTasks returns (nil, nil) when nothing has been stored yet.
type TaskPersister interface {
	LoadTasks(ctx context.Context) ([]Task, error)
	SaveTasks(ctx context.Context, tasks []Task) error
}

// PreferenceStore persists the single theme preference slot.
// LoadTheme returns ("", nil) when nothing has been stored yet.
type PreferenceStore interface {
	LoadTheme(ctx context.Context) (Theme, error)
	SaveTheme(ctx context.Context, theme Theme) error
}

// Persistence is the full storage capability a workspace needs.
type Persistence interface {
	TaskPersister
	PreferenceStore
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", ErrInvalidTheme
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// TaskRecord is the interchange shape of a stored task.
type TaskRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}

func NewTaskRecord(t Task) TaskRecord {
	return TaskRecord{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UnixMilli(),
	}
}

func (r TaskRecord) Task() Task {
	return Task{
		ID:        r.ID,
		Title:     r.Title,
		Completed: r.Completed,
		CreatedAt: time.UnixMilli(r.CreatedAt),
	}
}

// RecordsToTasks converts stored records back into tasks. Records that would
// break collection invariants (empty id, blank title, duplicate id) are
// dropped; the number dropped is returned.
func RecordsToTasks(records []TaskRecord) ([]Task, int) {
	tasks := make([]Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	dropped := 0
	for _, r := range records {
		if r.ID == "" || strings.TrimSpace(r.Title) == "" {
			dropped++
			continue
		}
		if _, dup := seen[r.ID]; dup {
			dropped++
			continue
		}
		seen[r.ID] = struct{}{}
		tasks = append(tasks, r.Task())
	}
	return tasks, dropped
}

// EncodeTasks marshals tasks into the interchange JSON array.
func EncodeTasks(tasks []Task) ([]byte, error) {
	records := make([]TaskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = NewTaskRecord(t)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("domain.EncodeTasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses the interchange JSON array. A JSON null decodes to an
// empty collection. dropped counts the records RecordsToTasks rejected.
func DecodeTasks(data []byte) (tasks []Task, dropped int, err error) {
	var records []TaskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("domain.DecodeTasks: %w", err)
	}
	tasks, dropped = RecordsToTasks(records)
	return tasks, dropped, nil
}
