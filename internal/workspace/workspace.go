// Package workspace binds one task list and one focus timer into a single
// serialized unit, persisting the list and publishing changes as they happen.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/focusdesk/internal/domain"
)

const (
	defaultTickInterval = time.Second
	defaultIOTimeout    = 5 * time.Second
)

// Options configures a Workspace.
type Options struct {
	// Channel is the pub/sub channel events are published on.
	Channel     string
	Persistence domain.Persistence
	// Publisher may be nil, in which case events are discarded.
	Publisher    Publisher
	TickInterval time.Duration
	IOTimeout    time.Duration
	TaskOptions  []domain.TaskStoreOption
}

// TimerView is the timer state plus the derived fields a presentation layer
// renders.
type TimerView struct {
	domain.TimerState
	Label           string `json:"label"`
	Display         string `json:"display"`
	Duration        int    `json:"duration"`
	ActiveTaskTitle string `json:"active_task_title,omitempty"`
	CanStart        bool   `json:"can_start"`
}

// State is a consistent snapshot of the whole workspace.
type State struct {
	Tasks     []domain.Task `json:"tasks"`
	Remaining int           `json:"remaining"`
	Timer     TimerView     `json:"timer"`
	Theme     domain.Theme  `json:"theme"`
}

// Workspace serializes every task and timer operation behind one mutex, which
// gives the run-to-completion semantics the task store and timer expect.
type Workspace struct {
	mu    sync.Mutex
	tasks *domain.TaskStore
	timer *domain.Timer
	theme domain.Theme

	saver        *saver
	events       *dispatcher
	tickInterval time.Duration
	cancel       context.CancelFunc
	closeOnce    sync.Once
}

// New loads persisted state and starts the background saver and event
// dispatcher. Load failures are logged and fall back to an empty list and the
// light theme.
func New(ctx context.Context, opts Options) (*Workspace, error) {
	if opts.Persistence == nil {
		return nil, errors.New("workspace.New: persistence is required")
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = defaultIOTimeout
	}

	loaded, err := opts.Persistence.LoadTasks(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("load tasks failed, starting with an empty list")
		loaded = nil
	}

	theme, err := opts.Persistence.LoadTheme(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("load theme failed, using light theme")
		theme = ""
	}
	if theme == "" {
		theme = domain.ThemeLight
	}

	runCtx, cancel := context.WithCancel(context.Background())
	w := &Workspace{
		tasks:        domain.NewTaskStore(loaded, opts.TaskOptions...),
		timer:        domain.NewTimer(),
		theme:        theme,
		saver:        newSaver(opts.Persistence, opts.IOTimeout),
		events:       newDispatcher(opts.Publisher, opts.Channel, opts.IOTimeout),
		tickInterval: opts.TickInterval,
		cancel:       cancel,
	}
	w.tasks.OnChange(w.tasksChanged)

	go w.saver.run(runCtx)
	go w.events.run(runCtx)

	log.Info().Int("tasks", len(loaded)).Str("theme", string(theme)).Msg("workspace loaded")

	return w, nil
}

// Close flushes pending writes and events. It waits until both are done or
// ctx expires.
func (w *Workspace) Close(ctx context.Context) error {
	w.closeOnce.Do(w.cancel)

	for _, done := range []chan struct{}{w.saver.done, w.events.done} {
		select {
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("workspace.Close: %w", ctx.Err())
		}
	}
	return nil
}

// Run drives the timer, calling Tick once per tick interval until ctx is
// cancelled. Missed ticks are not compensated.
func (w *Workspace) Run(ctx context.Context) {
	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

// tasksChanged runs under w.mu from inside a TaskStore mutation.
func (w *Workspace) tasksChanged(tasks []domain.Task) {
	if w.timer.Reconcile(w.tasks.Contains) {
		log.Info().Msg("active task removed, timer paused")
		w.emitTimer()
	}

	w.saver.queueTasks(tasks)
	w.events.emit(Event{
		Type: EventTasksChanged,
		Data: TasksPayload{Tasks: tasks, Remaining: w.tasks.RemainingCount()},
	})
}

func (w *Workspace) emitTimer() {
	w.events.emit(Event{Type: EventTimerChanged, Data: w.timerView()})
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

func (w *Workspace) AddTask(title string) (domain.Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.Add(title)
}

func (w *Workspace) RemoveTask(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.Remove(id)
}

func (w *Workspace) ToggleTask(id string) (domain.Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.Toggle(id)
}

// RenameTask stores title verbatim. Use CommitTitle for user-entered drafts.
func (w *Workspace) RenameTask(id, title string) (domain.Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.Rename(id, title)
}

// CommitTitle applies an inline-edit draft to the task. found is false for
// unknown ids; renamed is false when the draft was blank or unchanged.
func (w *Workspace) CommitTitle(id, draft string) (task domain.Task, found, renamed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	current, ok := w.tasks.Get(id)
	if !ok {
		return domain.Task{}, false, false
	}
	title, ok := domain.CommitTitle(draft, current.Title)
	if !ok {
		return current, true, false
	}
	task, _ = w.tasks.Rename(id, title)
	return task, true, true
}

func (w *Workspace) ClearCompleted() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.ClearCompleted()
}

func (w *Workspace) CompleteAll() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.CompleteAll()
}

func (w *Workspace) MoveTask(from, to int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.Move(from, to)
}

// MoveTaskBy shifts the task with id by offset positions in manual order.
// Unknown ids and moves past either end are dropped.
func (w *Workspace) MoveTaskBy(id string, offset int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	from := w.tasks.IndexOf(id)
	if from < 0 {
		return false
	}
	return w.tasks.Move(from, from+offset)
}

// Tasks returns the collection in manual order.
func (w *Workspace) Tasks() []domain.Task {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.Tasks()
}

// Filtered returns the display projection for kind and query.
func (w *Workspace) Filtered(kind domain.FilterKind, query string) []domain.Task {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := slices.Collect(w.tasks.FilteredView(kind, query))
	if out == nil {
		out = []domain.Task{}
	}
	return out
}

func (w *Workspace) RemainingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tasks.RemainingCount()
}

// ---------------------------------------------------------------------------
// Timer
// ---------------------------------------------------------------------------

// Timer operations return the view taken under the same lock as the
// mutation, so a concurrent tick cannot leak into the result.

// Start resumes the timer. changed is false when it was already running or
// the start was refused.
func (w *Workspace) Start() (view TimerView, changed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer.Running() || !w.timer.Start() {
		return w.timerView(), false
	}
	w.emitTimer()
	return w.timerView(), true
}

func (w *Workspace) Pause() TimerView {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer.Running() {
		w.timer.Pause()
		w.emitTimer()
	}
	return w.timerView()
}

// ToggleRunning pauses a running timer or starts a paused one. changed is
// false only when a start was refused.
func (w *Workspace) ToggleRunning() (view TimerView, changed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	before := w.timer.Running()
	if w.timer.ToggleRunning() == before {
		return w.timerView(), false
	}
	w.emitTimer()
	return w.timerView(), true
}

// SwitchMode is the explicit user switch; the timer always ends up paused.
func (w *Workspace) SwitchMode(mode domain.Mode) TimerView {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.timer.SwitchMode(mode, false)
	w.emitTimer()
	return w.timerView()
}

// SetActiveTask binds id to the timer. Ids that are not in the collection
// are ignored.
func (w *Workspace) SetActiveTask(id string) (view TimerView, changed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.tasks.Contains(id) {
		return w.timerView(), false
	}
	w.timer.SetActiveTask(id)
	w.emitTimer()
	return w.timerView(), true
}

// ClearActiveTask unbinds the active task. A running focus interval pauses
// since it no longer has a task.
func (w *Workspace) ClearActiveTask() TimerView {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.timer.ClearActiveTask()
	if w.timer.Mode() == domain.ModeFocus {
		w.timer.Pause()
	}
	w.emitTimer()
	return w.timerView()
}

// Tick advances the timer by one second.
func (w *Workspace) Tick() *domain.Expiry {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.timer.Running() {
		return nil
	}

	exp := w.timer.Tick()
	if exp != nil {
		log.Info().
			Str("from", string(exp.From)).
			Str("to", string(exp.To)).
			Int("cycle", exp.CycleCount).
			Msg("interval expired")
		w.events.emit(Event{
			Type: EventTimerExpired,
			Data: ExpiryPayload{From: exp.From, To: exp.To, CycleCount: exp.CycleCount, Running: exp.Running},
		})
	}
	w.emitTimer()
	return exp
}

func (w *Workspace) Timer() TimerView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timerView()
}

func (w *Workspace) timerView() TimerView {
	st := w.timer.State()
	v := TimerView{
		TimerState: st,
		Label:      st.Mode.Label(),
		Display:    domain.FormatClock(st.TimeLeft),
		Duration:   domain.ModeDuration(st.Mode),
		CanStart:   st.Mode != domain.ModeFocus || st.ActiveTaskID != "",
	}
	if t, ok := w.tasks.Get(st.ActiveTaskID); ok {
		v.ActiveTaskTitle = t.Title
	}
	return v
}

// ---------------------------------------------------------------------------
// Theme
// ---------------------------------------------------------------------------

func (w *Workspace) Theme() domain.Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme
}

func (w *Workspace) SetTheme(theme domain.Theme) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setTheme(theme)
}

func (w *Workspace) ToggleTheme() domain.Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setTheme(w.theme.Toggle())
	return w.theme
}

func (w *Workspace) setTheme(theme domain.Theme) {
	w.theme = theme
	w.saver.queueTheme(theme)
	w.events.emit(Event{Type: EventThemeChanged, Data: ThemePayload{Theme: theme}})
}

// State returns tasks in manual order together with the timer and theme.
func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return State{
		Tasks:     w.tasks.Tasks(),
		Remaining: w.tasks.RemainingCount(),
		Timer:     w.timerView(),
		Theme:     w.theme,
	}
}
