package domain

import "strings"

// CommitTitle applies the inline edit commit rule: the draft is trimmed, a
// blank result is discarded and an unchanged result needs no rename.
func CommitTitle(draft, stored string) (string, bool) {
	clean := strings.TrimSpace(draft)
	if clean == "" || clean == stored {
		return "", false
	}
	return clean, true
}

// TitleEditor is the viewing/editing micro-state of a single task row.
type TitleEditor struct {
	editing bool
	draft   string
}

// Begin enters edit mode with a draft seeded from stored.
func (e *TitleEditor) Begin(stored string) {
	e.editing = true
	e.draft = stored
}

func (e *TitleEditor) SetDraft(draft string) {
	if e.editing {
		e.draft = draft
	}
}

func (e *TitleEditor) Editing() bool { return e.editing }
func (e *TitleEditor) Draft() string { return e.draft }

// Commit closes edit mode and reports the title to pass to TaskStore.Rename,
// if any.
func (e *TitleEditor) Commit(stored string) (string, bool) {
	if !e.editing {
		return "", false
	}
	title, ok := CommitTitle(e.draft, stored)
	e.close()
	return title, ok
}

func (e *TitleEditor) Cancel() {
	e.close()
}

func (e *TitleEditor) close() {
	e.editing = false
	e.draft = ""
}
