package workspace

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/focusdesk/internal/domain"
)

// saver writes snapshots in the background. Only the latest pending snapshot
// per slot is kept, so a slow backend never queues stale writes.
type saver struct {
	store   domain.Persistence
	timeout time.Duration

	mu         sync.Mutex
	tasks      []domain.Task
	tasksDirty bool
	theme      domain.Theme
	themeDirty bool

	wake chan struct{}
	done chan struct{}
}

func newSaver(store domain.Persistence, timeout time.Duration) *saver {
	return &saver{
		store:   store,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (s *saver) queueTasks(tasks []domain.Task) {
	s.mu.Lock()
	s.tasks = slices.Clone(tasks)
	s.tasksDirty = true
	s.mu.Unlock()
	s.signal()
}

func (s *saver) queueTheme(theme domain.Theme) {
	s.mu.Lock()
	s.theme = theme
	s.themeDirty = true
	s.mu.Unlock()
	s.signal()
}

func (s *saver) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run flushes on every wake-up until ctx is cancelled, then flushes once more.
func (s *saver) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-ctx.Done():
			s.flush()
			return
		}
	}
}

func (s *saver) flush() {
	s.mu.Lock()
	tasks, tasksDirty := s.tasks, s.tasksDirty
	theme, themeDirty := s.theme, s.themeDirty
	s.tasks, s.tasksDirty = nil, false
	s.themeDirty = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if tasksDirty {
		if err := s.store.SaveTasks(ctx, tasks); err != nil {
			log.Warn().Err(err).Int("tasks", len(tasks)).Msg("save tasks failed")
		}
	}
	if themeDirty {
		if err := s.store.SaveTheme(ctx, theme); err != nil {
			log.Warn().Err(err).Str("theme", string(theme)).Msg("save theme failed")
		}
	}
}
