package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/focusdesk/internal/domain"
)

type TaskList struct {
	Tasks     []domain.Task `json:"tasks"`
	Remaining int           `json:"remaining" doc:"Number of tasks not yet completed"`
}

type TaskResult struct {
	Changed bool         `json:"changed" doc:"False when the request was a no-op"`
	Task    *domain.Task `json:"task,omitempty"`
}

type CountResult struct {
	Count int `json:"count" doc:"Number of tasks affected"`
}

type ListTasksInput struct {
	Filter string `query:"filter" doc:"all, active or completed (default all)"`
	Query  string `query:"q" doc:"Case-insensitive title substring"`
}

type ListTasksOutput struct {
	Body TaskList
}

type CreateTaskInput struct {
	Body struct {
		Title string `json:"title" maxLength:"500" doc:"Task title; blank titles are ignored"`
	}
}

type TaskIDInput struct {
	ID string `path:"id" doc:"Task ID"`
}

type TaskResultOutput struct {
	Body TaskResult
}

type RenameTaskInput struct {
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Title string `json:"title" maxLength:"500" doc:"Draft title; blank or unchanged drafts keep the stored title"`
	}
}

type MoveTaskInput struct {
	Body struct {
		From   *int   `json:"from,omitempty" doc:"Source index in manual order"`
		To     *int   `json:"to,omitempty" doc:"Destination index in manual order"`
		ID     string `json:"id,omitempty" doc:"Task to move by offset instead of by index"`
		Offset int    `json:"offset,omitempty" doc:"Relative move, -1 is up and 1 is down"`
	}
}

type CountOutput struct {
	Body CountResult
}

func RegisterTaskRoutes(api huma.API, ws Workspace) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks, newest first, optionally filtered",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		kind, err := domain.ParseFilterKind(input.Filter)
		if err != nil {
			return nil, huma.Error400BadRequest("filter must be all, active or completed")
		}

		return &ListTasksOutput{Body: TaskList{
			Tasks:     ws.Filtered(kind, input.Query),
			Remaining: ws.RemainingCount(),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Add a task at the front of the list",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *CreateTaskInput) (*TaskResultOutput, error) {
		t, ok := ws.AddTask(input.Body.Title)
		return taskResult(t, ok, ok), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Remove a task",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *TaskIDInput) (*TaskResultOutput, error) {
		return &TaskResultOutput{Body: TaskResult{Changed: ws.RemoveTask(input.ID)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/toggle",
		Summary:     "Flip a task's completion flag",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *TaskIDInput) (*TaskResultOutput, error) {
		t, ok := ws.ToggleTask(input.ID)
		return taskResult(t, ok, ok), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rename-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}/title",
		Summary:     "Commit an edited title",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *RenameTaskInput) (*TaskResultOutput, error) {
		t, found, renamed := ws.CommitTitle(input.ID, input.Body.Title)
		return taskResult(t, found, renamed), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/tasks/move",
		Summary:     "Reorder a task in the manual order",
		Description: "Moves by index when from and to are set, otherwise by offset relative to id.",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *MoveTaskInput) (*TaskResultOutput, error) {
		b := input.Body
		switch {
		case b.From != nil && b.To != nil:
			return &TaskResultOutput{Body: TaskResult{Changed: ws.MoveTask(*b.From, *b.To)}}, nil
		case b.ID != "":
			return &TaskResultOutput{Body: TaskResult{Changed: ws.MoveTaskBy(b.ID, b.Offset)}}, nil
		default:
			return nil, huma.Error422UnprocessableEntity("either from and to, or id is required")
		}
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-completed-tasks",
		Method:      http.MethodPost,
		Path:        "/tasks/clear-completed",
		Summary:     "Remove every completed task",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, _ *struct{}) (*CountOutput, error) {
		return &CountOutput{Body: CountResult{Count: ws.ClearCompleted()}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-all-tasks",
		Method:      http.MethodPost,
		Path:        "/tasks/complete-all",
		Summary:     "Mark every task completed",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, _ *struct{}) (*CountOutput, error) {
		return &CountOutput{Body: CountResult{Count: ws.CompleteAll()}}, nil
	})
}

func taskResult(t domain.Task, found, changed bool) *TaskResultOutput {
	out := &TaskResultOutput{Body: TaskResult{Changed: changed}}
	if found {
		out.Body.Task = &t
	}
	return out
}
