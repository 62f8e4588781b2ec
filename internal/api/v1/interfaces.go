package v1

import (
	"github.com/gosuda/focusdesk/internal/domain"
	"github.com/gosuda/focusdesk/internal/workspace"
)

// Workspace abstracts the task list and timer operations for handler testing.
// *workspace.Workspace satisfies this interface.
type Workspace interface {
	AddTask(title string) (domain.Task, bool)
	RemoveTask(id string) bool
	ToggleTask(id string) (domain.Task, bool)
	CommitTitle(id, draft string) (task domain.Task, found, renamed bool)
	ClearCompleted() int
	CompleteAll() int
	MoveTask(from, to int) bool
	MoveTaskBy(id string, offset int) bool
	Filtered(kind domain.FilterKind, query string) []domain.Task
	RemainingCount() int

	Start() (workspace.TimerView, bool)
	Pause() workspace.TimerView
	ToggleRunning() (workspace.TimerView, bool)
	SwitchMode(mode domain.Mode) workspace.TimerView
	SetActiveTask(id string) (workspace.TimerView, bool)
	ClearActiveTask() workspace.TimerView
	Timer() workspace.TimerView

	Theme() domain.Theme
	SetTheme(theme domain.Theme)
	ToggleTheme() domain.Theme
	State() workspace.State
}
