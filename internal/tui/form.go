package tui

import (
	"strings"

	"taskflow-cli/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
)

type formFocus int

const (
	focusTitle formFocus = iota
	focusDescription
	focusPriority
	focusTags
)

// formState backs the create/edit modal. editID == 0 means create.
type formState struct {
	editID     int
	title      textinput.Model
	desc       textarea.Model
	priority   model.Priority
	tagEntry   textinput.Model
	chosen     []model.Tag
	suggestIdx int
	focus      formFocus
	errMsg     string
	submitting bool
}

func newFormState(t *model.Task) *formState {
	title := textinput.New()
	title.Placeholder = "title"
	title.Prompt = ""
	title.CharLimit = model.MaxTitleLen
	title.Focus()

	desc := textarea.New()
	desc.Placeholder = "description (markdown)"
	desc.CharLimit = model.MaxDescriptionLen
	desc.SetHeight(5)
	desc.ShowLineNumbers = false

	tagEntry := textinput.New()
	tagEntry.Placeholder = "add tag"
	tagEntry.Prompt = "#"

	f := &formState{
		title:      title,
		desc:       desc,
		priority:   model.PriorityMedium,
		tagEntry:   tagEntry,
		suggestIdx: -1,
	}
	if t != nil {
		f.editID = t.ID
		f.title.SetValue(t.Title)
		f.desc.SetValue(t.Description)
		f.priority = t.Priority
		f.chosen = append(f.chosen, t.Tags...)
	}
	return f
}

func (f *formState) cyclePriority() {
	order := model.Priorities()
	for i, p := range order {
		if p == f.priority {
			f.priority = order[(i+1)%len(order)]
			return
		}
	}
	f.priority = model.PriorityMedium
}

func (f *formState) hasTag(name string) bool {
	for _, t := range f.chosen {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func (f *formState) addTag(t model.Tag) {
	if f.hasTag(t.Name) {
		return
	}
	f.chosen = append(f.chosen, t)
}

func (f *formState) removeLastTag() {
	if len(f.chosen) > 0 {
		f.chosen = f.chosen[:len(f.chosen)-1]
	}
}

func (f *formState) tagIDs() []int {
	ids := make([]int, len(f.chosen))
	for i, t := range f.chosen {
		ids[i] = t.ID
	}
	return ids
}

// toCreate builds and validates the create payload.
func (f *formState) toCreate() (model.TaskCreate, error) {
	in := model.TaskCreate{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: f.desc.Value(),
		Priority:    f.priority,
		TagIDs:      f.tagIDs(),
	}
	return in, in.Validate()
}

// toUpdate builds and validates the full-replace update payload.
func (f *formState) toUpdate() (model.TaskUpdate, error) {
	title := strings.TrimSpace(f.title.Value())
	desc := f.desc.Value()
	prio := f.priority
	in := model.TaskUpdate{
		Title:       &title,
		Description: &desc,
		Priority:    &prio,
		TagIDs:      f.tagIDs(),
	}
	return in, in.Validate()
}
