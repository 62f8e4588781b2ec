package redis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosuda/focusdesk/internal/domain"
	redisstore "github.com/gosuda/focusdesk/internal/store/redis"
)

func TestWorkspaceChannel(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "workspace:default", redisstore.WorkspaceChannel("default"))
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.WorkspaceChannel("team")
		assert.True(t, strings.HasPrefix(got, "workspace:"), "expected prefix 'workspace:', got %q", got)
	})

	t.Run("different inputs produce different outputs", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, redisstore.WorkspaceChannel("a"), redisstore.WorkspaceChannel("b"))
	})
}

func TestKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(string) string
		ws   string
		want string
	}{
		{"tasks", redisstore.TasksKey, "default", "focusdesk:default:tasks"},
		{"theme", redisstore.ThemeKey, "default", "focusdesk:default:theme"},
		{"tasks other workspace", redisstore.TasksKey, "team", "focusdesk:team:tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.fn(tt.ws))
		})
	}
}

func TestKeys_NoCollisionAcrossTypes(t *testing.T) {
	t.Parallel()

	tasks := redisstore.TasksKey("w")
	theme := redisstore.ThemeKey("w")
	channel := redisstore.WorkspaceChannel("w")

	assert.NotEqual(t, tasks, theme, "task and theme keys must not collide")
	assert.NotEqual(t, tasks, channel)
	assert.NotEqual(t, theme, channel)
}

var _ domain.Persistence = (*redisstore.Store)(nil)
