package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/focusdesk/internal/domain"
	"github.com/gosuda/focusdesk/internal/workspace"
)

type TimerOutput struct {
	Body workspace.TimerView
}

type TimerResult struct {
	Changed bool                `json:"changed" doc:"False when the request was a no-op"`
	Timer   workspace.TimerView `json:"timer"`
}

type TimerResultOutput struct {
	Body TimerResult
}

type SwitchModeInput struct {
	Body struct {
		Mode string `json:"mode" enum:"focus,shortBreak,longBreak" doc:"Target mode"`
	}
}

type SetActiveTaskInput struct {
	Body struct {
		ID string `json:"id" minLength:"1" doc:"Task the focus session is about"`
	}
}

func RegisterTimerRoutes(api huma.API, ws Workspace) {
	huma.Register(api, huma.Operation{
		OperationID: "get-timer",
		Method:      http.MethodGet,
		Path:        "/timer",
		Summary:     "Get the timer state",
		Tags:        []string{"Timer"},
	}, func(_ context.Context, _ *struct{}) (*TimerOutput, error) {
		return &TimerOutput{Body: ws.Timer()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start-timer",
		Method:      http.MethodPost,
		Path:        "/timer/start",
		Summary:     "Start the countdown",
		Description: "Focus mode only starts while an active task is set.",
		Tags:        []string{"Timer"},
	}, func(_ context.Context, _ *struct{}) (*TimerResultOutput, error) {
		return timerResult(ws.Start()), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "pause-timer",
		Method:      http.MethodPost,
		Path:        "/timer/pause",
		Summary:     "Pause the countdown",
		Tags:        []string{"Timer"},
	}, func(_ context.Context, _ *struct{}) (*TimerOutput, error) {
		return &TimerOutput{Body: ws.Pause()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-timer",
		Method:      http.MethodPost,
		Path:        "/timer/toggle",
		Summary:     "Start if paused, pause if running",
		Tags:        []string{"Timer"},
	}, func(_ context.Context, _ *struct{}) (*TimerResultOutput, error) {
		return timerResult(ws.ToggleRunning()), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "switch-timer-mode",
		Method:      http.MethodPost,
		Path:        "/timer/mode",
		Summary:     "Switch mode, resetting the countdown and pausing",
		Tags:        []string{"Timer"},
	}, func(_ context.Context, input *SwitchModeInput) (*TimerOutput, error) {
		mode, err := domain.ParseMode(input.Body.Mode)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("mode must be focus, shortBreak or longBreak")
		}
		return &TimerOutput{Body: ws.SwitchMode(mode)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-active-task",
		Method:      http.MethodPut,
		Path:        "/timer/active-task",
		Summary:     "Select the task to focus on",
		Description: "Unknown task IDs are ignored.",
		Tags:        []string{"Timer"},
	}, func(_ context.Context, input *SetActiveTaskInput) (*TimerResultOutput, error) {
		return timerResult(ws.SetActiveTask(input.Body.ID)), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-active-task",
		Method:      http.MethodDelete,
		Path:        "/timer/active-task",
		Summary:     "Clear the active task",
		Tags:        []string{"Timer"},
	}, func(_ context.Context, _ *struct{}) (*TimerOutput, error) {
		return &TimerOutput{Body: ws.ClearActiveTask()}, nil
	})
}

func timerResult(view workspace.TimerView, changed bool) *TimerResultOutput {
	return &TimerResultOutput{Body: TimerResult{Changed: changed, Timer: view}}
}
