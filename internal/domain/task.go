package domain

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type FilterKind string

const (
	FilterAll       FilterKind = "all"
	FilterActive    FilterKind = "active"
	FilterCompleted FilterKind = "completed"
)

// ParseFilterKind maps a query value onto a FilterKind. The empty string
// means FilterAll.
func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", ErrInvalidFilter
	}
}

func (k FilterKind) match(t Task) bool {
	switch k {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// TaskStore owns the ordered task collection. The slice order is the manual
// order; display order is computed by FilteredView.
//
// TaskStore is not safe for concurrent use. Callers serialize access.
type TaskStore struct {
	tasks     []Task
	now       func() time.Time
	newID     func() string
	listeners []func([]Task)
}

type TaskStoreOption func(*TaskStore)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) TaskStoreOption {
	return func(s *TaskStore) { s.now = now }
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(gen func() string) TaskStoreOption {
	return func(s *TaskStore) { s.newID = gen }
}

// NewTaskStore creates a store seeded with initial, which is copied.
func NewTaskStore(initial []Task, opts ...TaskStoreOption) *TaskStore {
	s := &TaskStore{
		tasks: slices.Clone(initial),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to run after every mutation that changed the
// collection. fn receives a copy of the tasks in manual order.
func (s *TaskStore) OnChange(fn func([]Task)) {
	s.listeners = append(s.listeners, fn)
}

func (s *TaskStore) changed() {
	for _, fn := range s.listeners {
		fn(s.Tasks())
	}
}

// Add inserts a task at the front. Blank titles are rejected and reported
// with ok == false.
func (s *TaskStore) Add(title string) (Task, bool) {
	clean := strings.TrimSpace(title)
	if clean == "" {
		return Task{}, false
	}

	t := Task{
		ID:        s.newID(),
		Title:     clean,
		CreatedAt: s.now(),
	}
	s.tasks = slices.Insert(s.tasks, 0, t)
	s.changed()
	return t, true
}

func (s *TaskStore) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.changed()
	return true
}

func (s *TaskStore) Toggle(id string) (Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.changed()
	return s.tasks[i], true
}

// Rename sets the title verbatim. Validation belongs to the caller; see
// CommitTitle.
func (s *TaskStore) Rename(id, title string) (Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	s.tasks[i].Title = title
	s.changed()
	return s.tasks[i], true
}

// ClearCompleted removes completed tasks and returns how many were dropped.
func (s *TaskStore) ClearCompleted() int {
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool { return t.Completed })
	removed := before - len(s.tasks)
	if removed > 0 {
		s.changed()
	}
	return removed
}

// CompleteAll marks every task completed and returns how many flipped.
func (s *TaskStore) CompleteAll() int {
	flipped := 0
	for i := range s.tasks {
		if !s.tasks[i].Completed {
			s.tasks[i].Completed = true
			flipped++
		}
	}
	if flipped > 0 {
		s.changed()
	}
	return flipped
}

// Move relocates the task at from to index to. Out-of-range indices drop the
// move instead of clamping it.
func (s *TaskStore) Move(from, to int) bool {
	n := len(s.tasks)
	if to < 0 || to >= n || from < 0 || from >= n {
		return false
	}
	if from == to {
		return true
	}
	t := s.tasks[from]
	s.tasks = slices.Delete(s.tasks, from, from+1)
	s.tasks = slices.Insert(s.tasks, to, t)
	s.changed()
	return true
}

// FilteredView yields tasks matching kind and query, newest first. Each range
// over the sequence re-reads the current collection.
func (s *TaskStore) FilteredView(kind FilterKind, query string) iter.Seq[Task] {
	return func(yield func(Task) bool) {
		var needle string
		if strings.TrimSpace(query) != "" {
			needle = strings.ToLower(query)
		}

		view := make([]Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			if !kind.match(t) {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
				continue
			}
			view = append(view, t)
		}
		slices.SortStableFunc(view, func(a, b Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})

		for _, t := range view {
			if !yield(t) {
				return
			}
		}
	}
}

func (s *TaskStore) RemainingCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Tasks returns a copy of the collection in manual order. The result is
// never nil.
func (s *TaskStore) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskStore) Get(id string) (Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

func (s *TaskStore) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

// IndexOf returns the manual-order position of id, or -1.
func (s *TaskStore) IndexOf(id string) int {
	return s.indexOf(id)
}

func (s *TaskStore) Len() int {
	return len(s.tasks)
}

func (s *TaskStore) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}
