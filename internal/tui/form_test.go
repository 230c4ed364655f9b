package tui

import (
	"strings"
	"testing"

	"taskflow-cli/internal/model"
)

func TestFormCreateRequiresTitle(t *testing.T) {
	f := newFormState(nil)
	if _, err := f.toCreate(); err == nil {
		t.Fatal("expected validation error for empty title")
	}

	f.title.SetValue("Buy milk")
	in, err := f.toCreate()
	if err != nil {
		t.Fatalf("toCreate: %v", err)
	}
	if in.Title != "Buy milk" || in.Priority != model.PriorityMedium {
		t.Fatalf("payload: got %+v", in)
	}
}

func TestFormCyclePriority(t *testing.T) {
	f := newFormState(nil)
	if f.priority != model.PriorityMedium {
		t.Fatalf("default priority: got %q", f.priority)
	}
	f.cyclePriority()
	if f.priority != model.PriorityLow {
		t.Fatalf("after one cycle: got %q", f.priority)
	}
	f.cyclePriority()
	f.cyclePriority()
	if f.priority != model.PriorityMedium {
		t.Fatalf("expected full cycle back to medium; got %q", f.priority)
	}
}

func TestFormTagSelection(t *testing.T) {
	f := newFormState(nil)
	f.addTag(model.Tag{ID: 1, Name: "home"})
	f.addTag(model.Tag{ID: 2, Name: "work"})
	f.addTag(model.Tag{ID: 1, Name: "Home"}) // duplicate, case-insensitive

	ids := f.tagIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("tag ids: got %v", ids)
	}

	f.removeLastTag()
	if ids := f.tagIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("tag ids after remove: got %v", ids)
	}
}

func TestFormEditPrefillsAndUpdates(t *testing.T) {
	task := model.Task{
		ID:          7,
		Title:       "Walk dog",
		Description: "around the block",
		Priority:    model.PriorityHigh,
		Tags:        []model.Tag{{ID: 3, Name: "pets"}},
	}
	f := newFormState(&task)
	if f.editID != 7 || f.title.Value() != "Walk dog" || f.priority != model.PriorityHigh {
		t.Fatalf("prefill: got editID=%d title=%q priority=%q", f.editID, f.title.Value(), f.priority)
	}

	f.title.SetValue("  Walk the dog  ")
	in, err := f.toUpdate()
	if err != nil {
		t.Fatalf("toUpdate: %v", err)
	}
	if in.Title == nil || *in.Title != "Walk the dog" {
		t.Fatalf("title: got %#v", in.Title)
	}
	if in.Priority == nil || *in.Priority != model.PriorityHigh {
		t.Fatalf("priority: got %#v", in.Priority)
	}
	if len(in.TagIDs) != 1 || in.TagIDs[0] != 3 {
		t.Fatalf("tag ids: got %v", in.TagIDs)
	}
}

func TestFormUpdateRejectsBlankTitle(t *testing.T) {
	task := model.Task{ID: 1, Title: "ok", Priority: model.PriorityLow}
	f := newFormState(&task)
	f.title.SetValue(strings.Repeat(" ", 3))
	if _, err := f.toUpdate(); err == nil {
		t.Fatal("expected blank title to fail validation")
	}
}
