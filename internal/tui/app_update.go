package tui

import (
	"strings"

	"taskflow-cli/internal/filter"
	"taskflow-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type createTagDoneMsg struct {
	tag model.Tag
	err error
}

func nextStatus(s filter.Status) filter.Status {
	switch s {
	case filter.StatusAll:
		return filter.StatusActive
	case filter.StatusActive:
		return filter.StatusCompleted
	default:
		return filter.StatusAll
	}
}

func nextSortField(f model.SortField) model.SortField {
	switch f {
	case model.SortCreatedAt:
		return model.SortUpdatedAt
	case model.SortUpdatedAt:
		return model.SortTitle
	case model.SortTitle:
		return model.SortPriority
	default:
		return model.SortCreatedAt
	}
}

func flipOrder(o model.SortOrder) model.SortOrder {
	if o == model.SortAsc {
		return model.SortDesc
	}
	return model.SortAsc
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.taskList.SetSize(msg.Width-2, max(msg.Height-6, 3))
		return m, nil

	case stateChangedMsg:
		m.syncFromStores()
		return m, nil

	case opDoneMsg:
		if m.form != nil {
			m.form.submitting = false
			if msg.err == nil {
				m.closeForm()
			} else {
				m.form.errMsg = msg.err.Error()
			}
		}
		return m, nil

	case createTagDoneMsg:
		if m.form != nil {
			m.form.submitting = false
			if msg.err != nil {
				m.form.errMsg = msg.err.Error()
			} else {
				m.form.addTag(msg.tag)
				m.form.tagEntry.SetValue("")
				m.form.suggestIdx = -1
				m.deps.completer.Input("")
			}
		}
		return m, nil

	case authDoneMsg:
		m.auth.submitting = false
		if msg.err != nil {
			m.auth.errMsg = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.view == viewAuth:
			return m.updateAuth(msg)
		case m.modal == modalForm:
			return m.updateForm(msg)
		case m.modal == modalConfirmDelete:
			return m.updateConfirm(msg)
		case m.modal == modalTagFilter:
			return m.updateTagFilter(msg)
		case m.view == viewDetail:
			return m.updateDetail(msg)
		case m.searchFocused:
			return m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searchFocused = true
		return m, m.searchInput.Focus()
	case "s":
		m.deps.filters.SetStatus(nextStatus(m.deps.filters.Status()))
		return m, nil
	case "1":
		m.deps.filters.TogglePriority(model.PriorityHigh)
		return m, nil
	case "2":
		m.deps.filters.TogglePriority(model.PriorityMedium)
		return m, nil
	case "3":
		m.deps.filters.TogglePriority(model.PriorityLow)
		return m, nil
	case "o":
		field, order := m.deps.filters.Sort()
		m.deps.filters.SetSort(nextSortField(field), order)
		return m, nil
	case "O":
		field, order := m.deps.filters.Sort()
		m.deps.filters.SetSort(field, flipOrder(order))
		return m, nil
	case "c":
		m.deps.filters.ClearFilters()
		return m, nil
	case "t":
		m.openTagFilter()
		return m, nil
	case "r":
		m.deps.orch.Refresh()
		m.deps.tags.StartFetch(m.ctx, nil)
		return m, nil
	case "n":
		m.openForm(nil)
		return m, nil
	case "e":
		if it, ok := m.selectedTask(); ok {
			m.openForm(&it.t)
		}
		return m, nil
	case "enter":
		if it, ok := m.selectedTask(); ok {
			m.detailID = it.t.ID
			m.view = viewDetail
		}
		return m, nil
	case " ", "x":
		if it, ok := m.selectedTask(); ok {
			return m, m.toggleCmd(it.t.ID)
		}
		return m, nil
	case "d":
		if it, ok := m.selectedTask(); ok {
			m.confirmDeleteID = it.t.ID
			m.confirmFocus = confirmFocusCancel
			m.modal = modalConfirmDelete
		}
		return m, nil
	case "ctrl+q":
		return m, m.signOutCmd()
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil
	case "ctrl+u":
		m.searchInput.SetValue("")
		m.searchDeb.Cancel()
		m.deps.filters.SetSearch("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchDeb.Call(m.searchInput.Value())
	return m, cmd
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.modal = modalNone
		m.confirmDeleteID = 0
		return m, nil
	case "tab", "left", "right":
		if m.confirmFocus == confirmFocusCancel {
			m.confirmFocus = confirmFocusConfirm
		} else {
			m.confirmFocus = confirmFocusCancel
		}
		return m, nil
	case "enter":
		id := m.confirmDeleteID
		m.modal = modalNone
		m.confirmDeleteID = 0
		if m.confirmFocus == confirmFocusConfirm && id != 0 {
			return m, m.deleteCmd(id)
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) openTagFilter() {
	m.tagFilterList.SetItems(tagFilterItems(m.deps.tags.Tags()))
	h := len(m.tagFilterList.Items())
	if h > 12 {
		h = 12
	}
	if h < 4 {
		h = 4
	}
	m.tagFilterList.SetSize(modalBodyWidth(m.width), h)
	m.tagFilterList.Select(0)
	m.modal = modalTagFilter
}

func (m *appModel) updateTagFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "t", "q":
		m.modal = modalNone
		return m, nil
	case "enter", " ":
		if it, ok := m.tagFilterList.SelectedItem().(tagFilterItem); ok {
			m.deps.filters.ToggleTag(it.tag.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tagFilterList, cmd = m.tagFilterList.Update(msg)
	return m, cmd
}

func (m *appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.view = viewList
		return m, nil
	case "e":
		if t, ok := m.detailTask(); ok {
			m.openForm(&t)
		}
		return m, nil
	case " ", "x":
		if t, ok := m.detailTask(); ok {
			return m, m.toggleCmd(t.ID)
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) detailTask() (model.Task, bool) {
	for _, t := range m.deps.tasks.Tasks() {
		if t.ID == m.detailID {
			return t, true
		}
	}
	return model.Task{}, false
}

func (m *appModel) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := &m.auth
	fields := a.fields()

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "ctrl+t":
		if a.mode == authSignIn {
			a.mode = authSignUp
		} else {
			a.mode = authSignIn
		}
		a.errMsg = ""
		a.setFocus(0)
		return m, nil
	case "tab", "down":
		a.setFocus((a.focus + 1) % len(fields))
		return m, nil
	case "shift+tab", "up":
		a.setFocus((a.focus - 1 + len(fields)) % len(fields))
		return m, nil
	case "enter":
		if a.submitting {
			return m, nil
		}
		email := strings.TrimSpace(a.email.Value())
		password := a.password.Value()
		if email == "" || password == "" {
			a.errMsg = "email and password are required"
			return m, nil
		}
		a.submitting = true
		a.errMsg = ""
		if a.mode == authSignUp {
			return m, m.signUpCmd(email, password, strings.TrimSpace(a.name.Value()))
		}
		return m, m.signInCmd(email, password)
	}

	var cmd tea.Cmd
	*fields[a.focus], cmd = fields[a.focus].Update(msg)
	return m, cmd
}

func (m *appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.modal = modalNone
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "ctrl+s":
		if f.submitting {
			return m, nil
		}
		if f.editID == 0 {
			in, err := f.toCreate()
			if err != nil {
				f.errMsg = err.Error()
				return m, nil
			}
			f.submitting = true
			f.errMsg = ""
			return m, m.createCmd(in)
		}
		in, err := f.toUpdate()
		if err != nil {
			f.errMsg = err.Error()
			return m, nil
		}
		f.submitting = true
		f.errMsg = ""
		return m, m.updateCmd(f.editID, in)
	case "tab":
		m.setFormFocus((f.focus + 1) % 4)
		return m, nil
	case "shift+tab":
		m.setFormFocus((f.focus + 3) % 4)
		return m, nil
	}

	switch f.focus {
	case focusTitle:
		var cmd tea.Cmd
		f.title, cmd = f.title.Update(msg)
		return m, cmd
	case focusDescription:
		var cmd tea.Cmd
		f.desc, cmd = f.desc.Update(msg)
		return m, cmd
	case focusPriority:
		switch msg.String() {
		case " ", "enter", "left", "right":
			f.cyclePriority()
		}
		return m, nil
	case focusTags:
		return m.updateFormTags(msg)
	}
	return m, nil
}

func (m *appModel) updateFormTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	suggestions := m.deps.completer.Suggestions()

	switch msg.String() {
	case "down":
		if len(suggestions) > 0 {
			f.suggestIdx = (f.suggestIdx + 1) % len(suggestions)
		}
		return m, nil
	case "up":
		if len(suggestions) > 0 {
			f.suggestIdx = (f.suggestIdx - 1 + len(suggestions)) % len(suggestions)
		}
		return m, nil
	case "enter":
		name := strings.TrimSpace(f.tagEntry.Value())
		if f.suggestIdx >= 0 && f.suggestIdx < len(suggestions) {
			name = suggestions[f.suggestIdx]
		}
		if name == "" {
			return m, nil
		}
		return m, m.addTagByName(name)
	case "backspace":
		if f.tagEntry.Value() == "" {
			f.removeLastTag()
			return m, nil
		}
	}

	var cmd tea.Cmd
	f.tagEntry, cmd = f.tagEntry.Update(msg)
	f.suggestIdx = -1
	m.deps.completer.Input(f.tagEntry.Value())
	return m, cmd
}

// addTagByName attaches an existing tag from the palette, or creates it on
// the server when it does not exist yet.
func (m *appModel) addTagByName(name string) tea.Cmd {
	f := m.form
	for _, t := range m.deps.tags.Tags() {
		if strings.EqualFold(t.Name, name) {
			f.addTag(t)
			f.tagEntry.SetValue("")
			f.suggestIdx = -1
			m.deps.completer.Input("")
			return nil
		}
	}
	f.submitting = true
	return m.createTagCmd(name)
}

func (m *appModel) openForm(t *model.Task) {
	m.form = newFormState(t)
	w := modalBodyWidth(m.width)
	m.form.title.Width = w - 2
	m.form.desc.SetWidth(w)
	m.form.tagEntry.Width = w - 2
	m.modal = modalForm
}

func (m *appModel) closeForm() {
	m.form = nil
	m.modal = modalNone
	m.deps.completer.Input("")
}

func (m *appModel) setFormFocus(focus formFocus) {
	f := m.form
	f.focus = focus
	f.title.Blur()
	f.desc.Blur()
	f.tagEntry.Blur()
	switch focus {
	case focusTitle:
		f.title.Focus()
	case focusDescription:
		f.desc.Focus()
	case focusTags:
		f.tagEntry.Focus()
	}
}

func (a *authState) fields() []*textinput.Model {
	fields := []*textinput.Model{&a.email, &a.password}
	if a.mode == authSignUp {
		fields = append(fields, &a.name)
	}
	return fields
}

func (a *authState) setFocus(i int) {
	a.focus = i
	a.email.Blur()
	a.password.Blur()
	a.name.Blur()
	switch i {
	case 0:
		a.email.Focus()
	case 1:
		a.password.Focus()
	case 2:
		a.name.Focus()
	}
}

func (m *appModel) toggleCmd(id int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.deps.tasks.ToggleComplete(m.ctx, id)
		return opDoneMsg{err: err}
	}
}

func (m *appModel) deleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.deps.tasks.Delete(m.ctx, id)}
	}
}

func (m *appModel) createCmd(in model.TaskCreate) tea.Cmd {
	return func() tea.Msg {
		_, err := m.deps.tasks.Create(m.ctx, in)
		return opDoneMsg{err: err}
	}
}

func (m *appModel) updateCmd(id int, in model.TaskUpdate) tea.Cmd {
	return func() tea.Msg {
		_, err := m.deps.tasks.Update(m.ctx, id, in)
		return opDoneMsg{err: err}
	}
}

func (m *appModel) createTagCmd(name string) tea.Cmd {
	return func() tea.Msg {
		tag, err := m.deps.tags.Create(m.ctx, name)
		return createTagDoneMsg{tag: tag, err: err}
	}
}

func (m *appModel) signInCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{err: m.deps.sess.SignIn(m.ctx, email, password)}
	}
}

func (m *appModel) signUpCmd(email, password, name string) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{err: m.deps.sess.SignUp(m.ctx, email, password, name)}
	}
}

func (m *appModel) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: m.deps.sess.SignOut(m.ctx)}
	}
}
