package filter

import (
	"reflect"
	"testing"

	"taskflow-cli/internal/model"
)

func TestDefaultParams(t *testing.T) {
	s := NewState()
	params := s.Params()
	want := map[string]string{
		"sort_by":    "created_at",
		"sort_order": "desc",
	}
	if len(params) != len(want) {
		t.Fatalf("unexpected params: %v", params)
	}
	for k, v := range want {
		if got := params.Get(k); got != v {
			t.Errorf("%s: got %q, want %q", k, got, v)
		}
	}
}

func TestParamsMapping(t *testing.T) {
	s := NewState()
	s.SetStatus(StatusActive)
	s.TogglePriority(model.PriorityHigh)
	s.SetSearch("milk")

	params := s.Params()
	want := map[string]string{
		"completed":  "false",
		"priority":   "high",
		"search":     "milk",
		"sort_by":    "created_at",
		"sort_order": "desc",
	}
	got := map[string]string{}
	for k := range params {
		got[k] = params.Get(k)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("params: got %v, want %v", got, want)
	}
}

func TestParamsCSVJoins(t *testing.T) {
	s := NewState()
	s.TogglePriority(model.PriorityLow)
	s.TogglePriority(model.PriorityHigh)
	s.ToggleTag(9)
	s.ToggleTag(2)
	s.SetStatus(StatusCompleted)

	params := s.Params()
	if got := params.Get("priority"); got != "high,low" {
		t.Errorf("priority CSV: got %q", got)
	}
	if got := params.Get("tag_ids"); got != "2,9" {
		t.Errorf("tag_ids CSV: got %q", got)
	}
	if got := params.Get("completed"); got != "true" {
		t.Errorf("completed: got %q", got)
	}
}

func TestClearFiltersLeavesSearchAndSort(t *testing.T) {
	s := NewState()
	s.SetSearch("milk")
	s.SetStatus(StatusCompleted)
	s.TogglePriority(model.PriorityMedium)
	s.ToggleTag(4)
	s.SetSort(model.SortTitle, model.SortAsc)

	if got := s.ActiveFilterCount(); got != 3 {
		t.Fatalf("ActiveFilterCount before clear: got %d", got)
	}

	s.ClearFilters()

	if got := s.ActiveFilterCount(); got != 0 {
		t.Errorf("ActiveFilterCount after clear: got %d", got)
	}
	if s.Search() != "milk" {
		t.Errorf("search was reset")
	}
	field, order := s.Sort()
	if field != model.SortTitle || order != model.SortAsc {
		t.Errorf("sort was reset: %s %s", field, order)
	}
	if s.Status() != StatusAll {
		t.Errorf("status not reset: %s", s.Status())
	}
}

func TestSubscribeFiresOnlyOnEffectiveChange(t *testing.T) {
	s := NewState()
	var fired int
	s.Subscribe(func() { fired++ })

	s.SetSearch("a")
	s.SetSearch("a") // no-op
	s.SetStatus(StatusAll)
	s.SetSort(model.SortCreatedAt, model.SortDesc) // defaults, no-op
	if fired != 1 {
		t.Fatalf("fired %d times, want 1", fired)
	}

	s.ClearFilters() // nothing active, no-op
	if fired != 1 {
		t.Fatalf("clear on defaults fired: %d", fired)
	}

	s.ToggleTag(1)
	s.ToggleTag(1)
	if fired != 3 {
		t.Fatalf("toggles should both fire: %d", fired)
	}
}
