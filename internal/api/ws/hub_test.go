package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/focusdesk/internal/api/ws"
	"github.com/gosuda/focusdesk/internal/domain"
	"github.com/gosuda/focusdesk/internal/store/memory"
	"github.com/gosuda/focusdesk/internal/workspace"
)

type staticState struct {
	state workspace.State
}

func (s staticState) State() workspace.State { return s.state }

type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T, hub *ws.Hub) (*websocket.Conn, context.Context) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeEvents))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })

	return conn, ctx
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) message {
	t.Helper()

	_, b, err := conn.Read(ctx)
	require.NoError(t, err)

	var m message
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestServeEvents_SnapshotThenEvents(t *testing.T) {
	t.Parallel()

	broker := memory.NewPubSub()
	state := staticState{state: workspace.State{
		Tasks:     []domain.Task{{ID: "a", Title: "write"}},
		Remaining: 1,
		Theme:     domain.ThemeDark,
	}}
	hub := ws.NewHub(broker, "workspace:test", state, nil)

	conn, ctx := dial(t, hub)

	first := read(t, ctx, conn)
	assert.Equal(t, ws.EventState, first.Type)

	var snap workspace.State
	require.NoError(t, json.Unmarshal(first.Data, &snap))
	assert.Equal(t, 1, snap.Remaining)
	assert.Equal(t, domain.ThemeDark, snap.Theme)

	// The subscription is registered before the snapshot is written.
	require.NoError(t, broker.Publish(ctx, "workspace:test", []byte(`{"type":"theme.changed","data":{"theme":"light"}}`)))

	next := read(t, ctx, conn)
	assert.Equal(t, workspace.EventThemeChanged, next.Type)
	assert.JSONEq(t, `{"theme":"light"}`, string(next.Data))
}

func TestServeEvents_OtherChannelsIgnored(t *testing.T) {
	t.Parallel()

	broker := memory.NewPubSub()
	hub := ws.NewHub(broker, "workspace:a", staticState{}, nil)

	conn, ctx := dial(t, hub)
	require.Equal(t, ws.EventState, read(t, ctx, conn).Type)

	require.NoError(t, broker.Publish(ctx, "workspace:b", []byte(`{"type":"tasks.changed"}`)))
	require.NoError(t, broker.Publish(ctx, "workspace:a", []byte(`{"type":"timer.changed"}`)))

	m := read(t, ctx, conn)
	assert.Equal(t, workspace.EventTimerChanged, m.Type)
}

func TestServeEvents_RelaysWorkspaceEvents(t *testing.T) {
	t.Parallel()

	broker := memory.NewPubSub()
	wsp, err := workspace.New(context.Background(), workspace.Options{
		Channel:     "workspace:live",
		Persistence: memory.NewStore(),
		Publisher:   broker,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = wsp.Close(ctx)
	})

	hub := ws.NewHub(broker, "workspace:live", wsp, nil)
	conn, ctx := dial(t, hub)
	require.Equal(t, ws.EventState, read(t, ctx, conn).Type)

	wsp.ToggleTheme()

	m := read(t, ctx, conn)
	assert.Equal(t, workspace.EventThemeChanged, m.Type)
	assert.JSONEq(t, `{"theme":"dark"}`, string(m.Data))
}
