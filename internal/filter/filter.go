// Package filter holds the user's current query intent: status, priorities,
// tag selection, free-text search, and sort. It performs no I/O; fetching on
// intent changes is the query orchestrator's job.
package filter

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"taskflow-cli/internal/model"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAll, "":
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status %q (want all|active|completed)", s)
}

type State struct {
	mu         sync.Mutex
	search     string
	status     Status
	priorities map[model.Priority]bool
	tagIDs     map[int]bool
	sortBy     model.SortField
	sortOrder  model.SortOrder

	subs []func()
}

func NewState() *State {
	return &State{
		status:     StatusAll,
		priorities: make(map[model.Priority]bool),
		tagIDs:     make(map[int]bool),
		sortBy:     model.SortCreatedAt,
		sortOrder:  model.SortDesc,
	}
}

// Subscribe registers a callback invoked after every effective change.
// Setters that leave the state unchanged do not fire it.
func (s *State) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *State) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *State) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

func (s *State) SetSearch(q string) {
	s.mu.Lock()
	if s.search == q {
		s.mu.Unlock()
		return
	}
	s.search = q
	s.mu.Unlock()
	s.notify()
}

func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *State) SetStatus(st Status) {
	s.mu.Lock()
	if s.status == st {
		s.mu.Unlock()
		return
	}
	s.status = st
	s.mu.Unlock()
	s.notify()
}

// Priorities returns the selected priorities in fixed high→low order.
func (s *State) Priorities() []model.Priority {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prioritiesLocked()
}

func (s *State) prioritiesLocked() []model.Priority {
	var out []model.Priority
	for _, p := range model.Priorities() {
		if s.priorities[p] {
			out = append(out, p)
		}
	}
	return out
}

func (s *State) TogglePriority(p model.Priority) {
	s.mu.Lock()
	if s.priorities[p] {
		delete(s.priorities, p)
	} else {
		s.priorities[p] = true
	}
	s.mu.Unlock()
	s.notify()
}

// TagIDs returns the selected tag ids in ascending order.
func (s *State) TagIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tagIDsLocked()
}

func (s *State) tagIDsLocked() []int {
	out := make([]int, 0, len(s.tagIDs))
	for id := range s.tagIDs {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (s *State) ToggleTag(id int) {
	s.mu.Lock()
	if s.tagIDs[id] {
		delete(s.tagIDs, id)
	} else {
		s.tagIDs[id] = true
	}
	s.mu.Unlock()
	s.notify()
}

func (s *State) HasTag(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tagIDs[id]
}

func (s *State) Sort() (model.SortField, model.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortBy, s.sortOrder
}

func (s *State) SetSort(field model.SortField, order model.SortOrder) {
	s.mu.Lock()
	if s.sortBy == field && s.sortOrder == order {
		s.mu.Unlock()
		return
	}
	s.sortBy = field
	s.sortOrder = order
	s.mu.Unlock()
	s.notify()
}

// ClearFilters resets status, priorities, and tag selection to defaults.
// Search and sort are deliberately left alone: they are not counted as
// filters either.
func (s *State) ClearFilters() {
	s.mu.Lock()
	changed := s.status != StatusAll || len(s.priorities) > 0 || len(s.tagIDs) > 0
	s.status = StatusAll
	s.priorities = make(map[model.Priority]bool)
	s.tagIDs = make(map[int]bool)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// ActiveFilterCount counts non-default fields among status, priorities, and
// tag selection.
func (s *State) ActiveFilterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	if s.status != StatusAll {
		n++
	}
	if len(s.priorities) > 0 {
		n++
	}
	if len(s.tagIDs) > 0 {
		n++
	}
	return n
}

// Params builds the canonical query parameter set for the current intent:
//
//	completed   only when status != all
//	priority    CSV, only when priorities selected
//	tag_ids     CSV, only when tags selected
//	search      only when non-empty
//	sort_by / sort_order  always
func (s *State) Params() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	params := url.Values{}
	switch s.status {
	case StatusActive:
		params.Set("completed", "false")
	case StatusCompleted:
		params.Set("completed", "true")
	}
	if ps := s.prioritiesLocked(); len(ps) > 0 {
		strs := make([]string, len(ps))
		for i, p := range ps {
			strs[i] = string(p)
		}
		params.Set("priority", strings.Join(strs, ","))
	}
	if ids := s.tagIDsLocked(); len(ids) > 0 {
		strs := make([]string, len(ids))
		for i, id := range ids {
			strs[i] = strconv.Itoa(id)
		}
		params.Set("tag_ids", strings.Join(strs, ","))
	}
	if s.search != "" {
		params.Set("search", s.search)
	}
	params.Set("sort_by", string(s.sortBy))
	params.Set("sort_order", string(s.sortOrder))
	return params
}
