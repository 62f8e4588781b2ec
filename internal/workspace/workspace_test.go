package workspace_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/focusdesk/internal/domain"
	"github.com/gosuda/focusdesk/internal/store/memory"
	"github.com/gosuda/focusdesk/internal/workspace"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// failingStore fails every call, exercising the degrade-gracefully paths.
type failingStore struct {
	mu    sync.Mutex
	saves int
}

var errBackend = errors.New("backend down")

func (f *failingStore) LoadTasks(context.Context) ([]domain.Task, error) { return nil, errBackend }
func (f *failingStore) LoadTheme(context.Context) (domain.Theme, error)  { return "", errBackend }
func (f *failingStore) SaveTheme(context.Context, domain.Theme) error    { return errBackend }
func (f *failingStore) SaveTasks(context.Context, []domain.Task) error {
	f.mu.Lock()
	f.saves++
	f.mu.Unlock()
	return errBackend
}

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []workspace.Event
	raw    []json.RawMessage
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, payload []byte) error {
	var ev workspace.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.raw = append(p.raw, payload)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func newWorkspace(t *testing.T, store domain.Persistence, pub workspace.Publisher) *workspace.Workspace {
	t.Helper()

	w, err := workspace.New(context.Background(), workspace.Options{
		Channel:     "workspace:test",
		Persistence: store,
		Publisher:   pub,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = w.Close(ctx)
	})
	return w
}

func closeWorkspace(t *testing.T, w *workspace.Workspace) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Close(ctx))
}

func bindTask(t *testing.T, w *workspace.Workspace, id string) {
	t.Helper()

	_, changed := w.SetActiveTask(id)
	require.True(t, changed)
}

func startTimer(t *testing.T, w *workspace.Workspace) {
	t.Helper()

	tv, changed := w.Start()
	require.True(t, changed)
	require.True(t, tv.Running)
}

// ---------------------------------------------------------------------------
// 1. Construction and persistence
// ---------------------------------------------------------------------------

func TestNew_RequiresPersistence(t *testing.T) {
	t.Parallel()

	_, err := workspace.New(context.Background(), workspace.Options{})
	require.Error(t, err)
}

func TestNew_LoadsPersistedState(t *testing.T) {
	t.Parallel()

	store := memory.NewStoreWith([]domain.Task{
		{ID: "a", Title: "kept", CreatedAt: time.UnixMilli(1000)},
	}, domain.ThemeDark)
	w := newWorkspace(t, store, nil)

	st := w.State()
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "kept", st.Tasks[0].Title)
	assert.Equal(t, domain.ThemeDark, st.Theme)
	assert.Equal(t, 1, st.Remaining)
}

func TestNew_LoadFailureFallsBackToEmpty(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, &failingStore{}, nil)

	st := w.State()
	assert.Empty(t, st.Tasks)
	assert.NotNil(t, st.Tasks)
	assert.Equal(t, domain.ThemeLight, st.Theme)
}

func TestWorkspace_PersistsAfterMutation(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	w := newWorkspace(t, store, nil)

	_, ok := w.AddTask("Write report")
	require.True(t, ok)
	w.SetTheme(domain.ThemeDark)
	closeWorkspace(t, w)

	tasks, err := store.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)

	theme, err := store.LoadTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
}

func TestWorkspace_NoOpDoesNotPersist(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	w := newWorkspace(t, store, nil)

	_, ok := w.AddTask("   ")
	assert.False(t, ok)
	assert.False(t, w.RemoveTask("missing"))
	assert.False(t, w.MoveTask(0, 1))
	closeWorkspace(t, w)

	assert.Zero(t, store.Saves())
}

func TestWorkspace_SaveFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	store := &failingStore{}
	w := newWorkspace(t, store, nil)

	_, ok := w.AddTask("still works")
	require.True(t, ok)
	closeWorkspace(t, w)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Positive(t, store.saves)
	assert.Len(t, w.Tasks(), 1)
}

// ---------------------------------------------------------------------------
// 2. Task operations
// ---------------------------------------------------------------------------

func TestWorkspace_CommitTitle(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	task, _ := w.AddTask("Old")

	got, found, renamed := w.CommitTitle(task.ID, "  New  ")
	assert.True(t, found)
	assert.True(t, renamed)
	assert.Equal(t, "New", got.Title)

	got, found, renamed = w.CommitTitle(task.ID, "   ")
	assert.True(t, found)
	assert.False(t, renamed)
	assert.Equal(t, "New", got.Title)

	_, found, _ = w.CommitTitle("missing", "x")
	assert.False(t, found)
}

func TestWorkspace_MoveTaskBy(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	a, _ := w.AddTask("a")
	b, _ := w.AddTask("b")
	// Manual order: b, a.

	assert.False(t, w.MoveTaskBy(b.ID, -1), "cannot move first task up")
	assert.True(t, w.MoveTaskBy(b.ID, 1))
	assert.Equal(t, []string{a.ID, b.ID}, []string{w.Tasks()[0].ID, w.Tasks()[1].ID})
	assert.False(t, w.MoveTaskBy("missing", 1))
}

func TestWorkspace_Filtered(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	w.AddTask("alpha")
	beta, _ := w.AddTask("beta")
	w.ToggleTask(beta.ID)

	assert.Len(t, w.Filtered(domain.FilterAll, ""), 2)
	active := w.Filtered(domain.FilterActive, "")
	require.Len(t, active, 1)
	assert.Equal(t, "alpha", active[0].Title)
	assert.NotNil(t, w.Filtered(domain.FilterCompleted, "zzz"))
	assert.Equal(t, 1, w.RemainingCount())
}

// ---------------------------------------------------------------------------
// 3. Timer integration
// ---------------------------------------------------------------------------

func TestWorkspace_FocusScenario(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	task, ok := w.AddTask("Write report")
	require.True(t, ok)

	_, started := w.Start()
	assert.False(t, started, "focus needs an active task")
	bindTask(t, w, task.ID)
	tv, started := w.Start()
	require.True(t, started)
	assert.True(t, tv.Running)
	assert.Equal(t, "Write report", tv.ActiveTaskTitle)

	var exp *domain.Expiry
	for range 1500 {
		if e := w.Tick(); e != nil {
			exp = e
		}
	}

	require.NotNil(t, exp)
	tv = w.Timer()
	assert.Equal(t, domain.ModeShortBreak, tv.Mode)
	assert.True(t, tv.Running)
	assert.Equal(t, 1, tv.CycleCount)
	assert.Equal(t, "05:00", tv.Display)
	assert.Equal(t, "Short Break", tv.Label)
}

func TestWorkspace_RemovingActiveTaskStopsTimer(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	task, _ := w.AddTask("doomed")
	bindTask(t, w, task.ID)
	startTimer(t, w)
	w.Tick()

	require.True(t, w.RemoveTask(task.ID))

	tv := w.Timer()
	assert.Empty(t, tv.ActiveTaskID)
	assert.False(t, tv.Running)
	assert.False(t, tv.CanStart)
}

func TestWorkspace_ClearCompletedDropsActiveTask(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	task, _ := w.AddTask("done soon")
	bindTask(t, w, task.ID)
	w.ToggleTask(task.ID)

	assert.Equal(t, task.ID, w.Timer().ActiveTaskID, "completing does not unbind")
	assert.Equal(t, 1, w.ClearCompleted())
	assert.Empty(t, w.Timer().ActiveTaskID)
}

func TestWorkspace_SetActiveTask_UnknownID(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	_, changed := w.SetActiveTask("ghost")
	assert.False(t, changed)
	assert.Empty(t, w.Timer().ActiveTaskID)
}

func TestWorkspace_ClearActiveTask_PausesFocus(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	task, _ := w.AddTask("a")
	bindTask(t, w, task.ID)
	startTimer(t, w)

	tv := w.ClearActiveTask()
	assert.False(t, tv.Running)
	assert.False(t, w.Timer().Running)
}

func TestWorkspace_ToggleRunning(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)

	tv, changed := w.ToggleRunning()
	assert.False(t, changed, "focus without a task stays paused")
	assert.False(t, tv.Running)

	task, _ := w.AddTask("a")
	bindTask(t, w, task.ID)

	tv, changed = w.ToggleRunning()
	assert.True(t, changed)
	assert.True(t, tv.Running)

	tv, changed = w.ToggleRunning()
	assert.True(t, changed, "pausing is a change")
	assert.False(t, tv.Running)
}

func TestWorkspace_StartWhileRunningIsNoOp(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	w := newWorkspace(t, memory.NewStore(), pub)
	w.SwitchMode(domain.ModeShortBreak)
	startTimer(t, w)

	tv, changed := w.Start()
	assert.False(t, changed)
	assert.True(t, tv.Running)
	closeWorkspace(t, w)

	assert.Equal(t, []string{
		workspace.EventTimerChanged,
		workspace.EventTimerChanged,
	}, pub.types())
}

func TestWorkspace_SwitchModeIsExplicit(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t, memory.NewStore(), nil)
	task, _ := w.AddTask("a")
	bindTask(t, w, task.ID)
	startTimer(t, w)

	tv := w.SwitchMode(domain.ModeLongBreak)
	assert.Equal(t, domain.ModeLongBreak, tv.Mode)
	assert.Equal(t, 900, tv.TimeLeft)
	assert.False(t, tv.Running)
}

func TestWorkspace_Run_DrivesTicks(t *testing.T) {
	t.Parallel()

	w, err := workspace.New(context.Background(), workspace.Options{
		Persistence:  memory.NewStore(),
		TickInterval: time.Millisecond,
	})
	require.NoError(t, err)
	defer closeWorkspace(t, w)

	w.SwitchMode(domain.ModeShortBreak)
	startTimer(t, w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return w.Timer().TimeLeft < 300
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

// ---------------------------------------------------------------------------
// 4. Events
// ---------------------------------------------------------------------------

func TestWorkspace_PublishesEvents(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	w := newWorkspace(t, memory.NewStore(), pub)

	task, _ := w.AddTask("a")
	bindTask(t, w, task.ID)
	w.ToggleTheme()
	w.RemoveTask(task.ID)
	closeWorkspace(t, w)

	assert.Equal(t, []string{
		workspace.EventTasksChanged,
		workspace.EventTimerChanged,
		workspace.EventThemeChanged,
		workspace.EventTimerChanged, // reconcile cleared the active task
		workspace.EventTasksChanged,
	}, pub.types())
}

func TestWorkspace_PublishesExpiry(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	w := newWorkspace(t, memory.NewStore(), pub)

	w.SwitchMode(domain.ModeShortBreak)
	startTimer(t, w)
	for range 300 {
		w.Tick()
	}
	closeWorkspace(t, w)

	pub.mu.Lock()
	defer pub.mu.Unlock()

	var expiry *workspace.ExpiryPayload
	for i, ev := range pub.events {
		if ev.Type != workspace.EventTimerExpired {
			continue
		}
		var env struct {
			Data workspace.ExpiryPayload `json:"data"`
		}
		require.NoError(t, json.Unmarshal(pub.raw[i], &env))
		expiry = &env.Data
	}

	require.NotNil(t, expiry)
	assert.Equal(t, domain.ModeShortBreak, expiry.From)
	assert.Equal(t, domain.ModeFocus, expiry.To)
	assert.False(t, expiry.Running, "focus without a task stays paused")
}
