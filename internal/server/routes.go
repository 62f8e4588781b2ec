package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/focusdesk/internal/api/v1"
	"github.com/gosuda/focusdesk/internal/api/ws"
)

func registerAPIRoutes(api huma.API, workspace v1.Workspace) {
	v1.RegisterTaskRoutes(api, workspace)
	v1.RegisterTimerRoutes(api, workspace)
	v1.RegisterPreferenceRoutes(api, workspace)
	v1.RegisterStateRoutes(api, workspace)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/events", hub.ServeEvents)
}
