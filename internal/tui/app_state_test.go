package tui

import (
	"strings"
	"testing"

	"taskflow-cli/internal/filter"
	"taskflow-cli/internal/model"
)

func TestNextStatusCycles(t *testing.T) {
	got := filter.StatusAll
	want := []filter.Status{filter.StatusActive, filter.StatusCompleted, filter.StatusAll}
	for _, w := range want {
		got = nextStatus(got)
		if got != w {
			t.Fatalf("nextStatus: got %q want %q", got, w)
		}
	}
}

func TestNextSortFieldCycles(t *testing.T) {
	got := model.SortCreatedAt
	want := []model.SortField{model.SortUpdatedAt, model.SortTitle, model.SortPriority, model.SortCreatedAt}
	for _, w := range want {
		got = nextSortField(got)
		if got != w {
			t.Fatalf("nextSortField: got %q want %q", got, w)
		}
	}
}

func TestFlipOrder(t *testing.T) {
	if flipOrder(model.SortDesc) != model.SortAsc {
		t.Fatal("expected desc to flip to asc")
	}
	if flipOrder(model.SortAsc) != model.SortDesc {
		t.Fatal("expected asc to flip to desc")
	}
}

func TestTaskRowShowsCompletionAndTags(t *testing.T) {
	task := model.Task{
		Title:     "Buy milk",
		Completed: true,
		Tags:      []model.Tag{{ID: 1, Name: "home"}, {ID: 2, Name: "errands"}},
	}
	row := taskRow(task, 80)
	if !strings.HasPrefix(row, "[x] Buy milk") {
		t.Fatalf("row: got %q", row)
	}
	if !strings.Contains(row, "#home") || !strings.Contains(row, "#errands") {
		t.Fatalf("expected tag chips in row; got %q", row)
	}
}

func TestTaskRowTruncatesToWidth(t *testing.T) {
	task := model.Task{Title: strings.Repeat("long title ", 30)}
	row := taskRow(task, 20)
	if len(row) > 20 {
		t.Fatalf("expected row capped at 20 cells; got %d: %q", len(row), row)
	}
	if !strings.HasPrefix(row, "[ ] ") {
		t.Fatalf("row: got %q", row)
	}
}
