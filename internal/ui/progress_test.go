package ui

import (
	"strings"
	"testing"

	"viewspec/internal/batch"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	m := NewProgressModel("render", []string{"cat", "dog"}, nil).(*progressModel)

	m.Update(eventMsg(batch.Event{Index: -1, Stage: batch.StageWarm, Status: batch.StatusWorking}))
	if m.stageLabel != "preloading" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	m.Update(eventMsg(batch.Event{Index: 0, Stage: batch.StageRender, Status: batch.StatusWorking}))
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("fraction = %v, want 0.25", got)
	}
	m.Update(eventMsg(batch.Event{Index: 0, Stage: batch.StageRender, Status: batch.StatusDone}))
	m.Update(eventMsg(batch.Event{Index: 1, Stage: batch.StageRender, Status: batch.StatusError}))
	m.Update(eventMsg(batch.Event{Index: 7, Status: batch.StatusDone}))
	if got := m.fraction(); got != 1 {
		t.Fatalf("fraction = %v, want 1", got)
	}
	if m.failed != 1 {
		t.Fatalf("failed = %d, want 1", m.failed)
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: render", "cat", "dog", "1 failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelListsBoundedRows(t *testing.T) {
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = "root"
	}
	m := NewProgressModel("check", labels, nil).(*progressModel)
	view := m.View()
	if !strings.Contains(view, "18 more") {
		t.Fatalf("view should summarise hidden rows:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdefgh", 4); got != "a..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 2); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}
