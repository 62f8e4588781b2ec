package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/focusdesk/internal/api/v1"
	"github.com/gosuda/focusdesk/internal/domain"
	"github.com/gosuda/focusdesk/internal/store/memory"
	"github.com/gosuda/focusdesk/internal/workspace"
)

// ---------------------------------------------------------------------------
// Test API: a real workspace over the in-memory store
// ---------------------------------------------------------------------------

func newTestAPI(t *testing.T) (humatest.TestAPI, *workspace.Workspace) {
	t.Helper()

	seq := 0
	clock := time.UnixMilli(1_000_000)
	ws, err := workspace.New(context.Background(), workspace.Options{
		Channel:     "workspace:test",
		Persistence: memory.NewStore(),
		TaskOptions: []domain.TaskStoreOption{
			domain.WithIDGenerator(func() string {
				seq++
				return fmt.Sprintf("t%d", seq)
			}),
			domain.WithClock(func() time.Time {
				clock = clock.Add(time.Second)
				return clock
			}),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ws.Close(ctx)
	})

	_, api := humatest.New(t)
	v1.RegisterTaskRoutes(api, ws)
	v1.RegisterTimerRoutes(api, ws)
	v1.RegisterPreferenceRoutes(api, ws)
	v1.RegisterStateRoutes(api, ws)

	return api, ws
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
