package domain

import "fmt"

type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// Fixed interval lengths in seconds.
const (
	FocusSeconds      = 25 * 60
	ShortBreakSeconds = 5 * 60
	LongBreakSeconds  = 15 * 60
)

// LongBreakEvery is the number of completed focus intervals between long breaks.
const LongBreakEvery = 4

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return m, nil
	default:
		return "", ErrInvalidMode
	}
}

// ModeDuration returns the interval length of m in seconds. Unknown modes
// get the long break duration.
func ModeDuration(m Mode) int {
	switch m {
	case ModeFocus:
		return FocusSeconds
	case ModeShortBreak:
		return ShortBreakSeconds
	default:
		return LongBreakSeconds
	}
}

func (m Mode) Label() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// NextModeAfter returns the mode that follows an expired m, given the number
// of focus intervals completed before this one.
func NextModeAfter(m Mode, cycleCount int) Mode {
	if m != ModeFocus {
		return ModeFocus
	}
	if (cycleCount+1)%LongBreakEvery == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// TimerState is the observable state of a Timer.
type TimerState struct {
	Mode         Mode   `json:"mode"`
	TimeLeft     int    `json:"time_left"`
	Running      bool   `json:"running"`
	CycleCount   int    `json:"cycle_count"`
	ActiveTaskID string `json:"active_task_id,omitempty"`
}

// Expiry describes an automatic transition performed by Tick.
type Expiry struct {
	From       Mode
	To         Mode
	CycleCount int
	Running    bool
}

// Timer is the focus/break countdown state machine. It never drives its own
// clock; a scheduler calls Tick once per elapsed second.
//
// Timer is not safe for concurrent use.
type Timer struct {
	mode         Mode
	timeLeft     int
	running      bool
	cycleCount   int
	activeTaskID string
}

func NewTimer() *Timer {
	return &Timer{
		mode:     ModeFocus,
		timeLeft: ModeDuration(ModeFocus),
	}
}

func (t *Timer) State() TimerState {
	return TimerState{
		Mode:         t.mode,
		TimeLeft:     t.timeLeft,
		Running:      t.running,
		CycleCount:   t.cycleCount,
		ActiveTaskID: t.activeTaskID,
	}
}

func (t *Timer) Mode() Mode           { return t.mode }
func (t *Timer) TimeLeft() int        { return t.timeLeft }
func (t *Timer) Running() bool        { return t.running }
func (t *Timer) CycleCount() int      { return t.cycleCount }
func (t *Timer) ActiveTaskID() string { return t.activeTaskID }

// canRun reports whether the timer may run in mode m. Focus needs a bound task.
func (t *Timer) canRun(m Mode) bool {
	return m != ModeFocus || t.activeTaskID != ""
}

// Start resumes the countdown. It is refused in focus mode without an active
// task.
func (t *Timer) Start() bool {
	if !t.canRun(t.mode) {
		return false
	}
	t.running = true
	return true
}

func (t *Timer) Pause() {
	t.running = false
}

// ToggleRunning pauses a running timer or starts a paused one. It returns the
// resulting running state.
func (t *Timer) ToggleRunning() bool {
	if t.running {
		t.Pause()
		return false
	}
	return t.Start()
}

// SwitchMode resets the countdown to target. An explicit switch always
// pauses; an automatic one keeps running unless target is focus without an
// active task.
func (t *Timer) SwitchMode(target Mode, auto bool) {
	t.mode = target
	t.timeLeft = ModeDuration(target)
	t.running = auto && t.canRun(target)
}

// SetActiveTask binds the task the focus interval belongs to. An empty id
// unbinds.
func (t *Timer) SetActiveTask(id string) {
	t.activeTaskID = id
}

func (t *Timer) ClearActiveTask() {
	t.activeTaskID = ""
}

// Tick advances the countdown by one second. Ticks while paused are ignored.
// When the interval expires the timer pauses, advances the cycle and switches
// mode; the returned Expiry is non-nil only then.
func (t *Timer) Tick() *Expiry {
	if !t.running {
		return nil
	}
	if t.timeLeft > 0 {
		t.timeLeft--
	}
	if t.timeLeft > 0 {
		return nil
	}

	t.running = false
	from := t.mode
	target := NextModeAfter(from, t.cycleCount)
	if from == ModeFocus {
		t.cycleCount++
	}
	t.SwitchMode(target, true)

	return &Expiry{
		From:       from,
		To:         target,
		CycleCount: t.cycleCount,
		Running:    t.running,
	}
}

// Reconcile drops the active task when exists no longer reports it and
// pauses the timer. It returns true when the binding was cleared.
func (t *Timer) Reconcile(exists func(id string) bool) bool {
	if t.activeTaskID == "" || exists(t.activeTaskID) {
		return false
	}
	t.activeTaskID = ""
	t.running = false
	return true
}
