package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/focusdesk/internal/domain"
	"github.com/gosuda/focusdesk/internal/workspace"
)

type ThemeBody struct {
	Theme domain.Theme `json:"theme" enum:"light,dark" doc:"Color theme"`
}

type ThemeOutput struct {
	Body ThemeBody
}

type SetThemeInput struct {
	Body struct {
		Theme string `json:"theme" doc:"light or dark"`
	}
}

type StateOutput struct {
	Body workspace.State
}

func RegisterPreferenceRoutes(api huma.API, ws Workspace) {
	huma.Register(api, huma.Operation{
		OperationID: "get-theme",
		Method:      http.MethodGet,
		Path:        "/preferences/theme",
		Summary:     "Get the theme preference",
		Tags:        []string{"Preferences"},
	}, func(_ context.Context, _ *struct{}) (*ThemeOutput, error) {
		return &ThemeOutput{Body: ThemeBody{Theme: ws.Theme()}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-theme",
		Method:      http.MethodPut,
		Path:        "/preferences/theme",
		Summary:     "Set the theme preference",
		Tags:        []string{"Preferences"},
	}, func(_ context.Context, input *SetThemeInput) (*ThemeOutput, error) {
		theme, err := domain.ParseTheme(input.Body.Theme)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("theme must be light or dark")
		}
		ws.SetTheme(theme)
		return &ThemeOutput{Body: ThemeBody{Theme: theme}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-theme",
		Method:      http.MethodPost,
		Path:        "/preferences/theme/toggle",
		Summary:     "Switch between light and dark",
		Tags:        []string{"Preferences"},
	}, func(_ context.Context, _ *struct{}) (*ThemeOutput, error) {
		return &ThemeOutput{Body: ThemeBody{Theme: ws.ToggleTheme()}}, nil
	})
}

func RegisterStateRoutes(api huma.API, ws Workspace) {
	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/state",
		Summary:     "Snapshot of tasks, timer and theme",
		Tags:        []string{"State"},
	}, func(_ context.Context, _ *struct{}) (*StateOutput, error) {
		return &StateOutput{Body: ws.State()}, nil
	})
}
