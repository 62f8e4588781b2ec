package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosuda/focusdesk/internal/domain"
)

func TestCommitTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		draft      string
		stored     string
		want       string
		wantRename bool
	}{
		{name: "changed", draft: "New title", stored: "Old", want: "New title", wantRename: true},
		{name: "trimmed before compare", draft: "  Old  ", stored: "Old", wantRename: false},
		{name: "trimmed result renamed", draft: "  New ", stored: "Old", want: "New", wantRename: true},
		{name: "blank discarded", draft: "   ", stored: "Old", wantRename: false},
		{name: "empty discarded", draft: "", stored: "Old", wantRename: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := domain.CommitTitle(tt.draft, tt.stored)
			assert.Equal(t, tt.wantRename, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleEditor(t *testing.T) {
	t.Parallel()

	t.Run("commit changed draft", func(t *testing.T) {
		t.Parallel()

		var e domain.TitleEditor
		e.Begin("Old")
		assert.True(t, e.Editing())
		assert.Equal(t, "Old", e.Draft())

		e.SetDraft(" New ")
		title, ok := e.Commit("Old")
		assert.True(t, ok)
		assert.Equal(t, "New", title)
		assert.False(t, e.Editing())
	})

	t.Run("blank commit closes without rename", func(t *testing.T) {
		t.Parallel()

		var e domain.TitleEditor
		e.Begin("Old")
		e.SetDraft("  ")

		_, ok := e.Commit("Old")
		assert.False(t, ok)
		assert.False(t, e.Editing())
	})

	t.Run("cancel discards draft", func(t *testing.T) {
		t.Parallel()

		var e domain.TitleEditor
		e.Begin("Old")
		e.SetDraft("Something else")
		e.Cancel()

		assert.False(t, e.Editing())
		_, ok := e.Commit("Old")
		assert.False(t, ok, "commit outside edit mode is ignored")
	})

	t.Run("re-entering reseeds from stored title", func(t *testing.T) {
		t.Parallel()

		var e domain.TitleEditor
		e.Begin("Old")
		e.SetDraft("stale")
		e.Cancel()

		e.Begin("Renamed elsewhere")
		assert.Equal(t, "Renamed elsewhere", e.Draft())
	})

	t.Run("draft ignored while viewing", func(t *testing.T) {
		t.Parallel()

		var e domain.TitleEditor
		e.SetDraft("x")
		assert.Empty(t, e.Draft())
	})
}
