package tui

import (
	"fmt"
	"strings"

	"taskflow-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch {
	case m.view == viewAuth:
		return m.placeCentered(m.viewAuthModal())
	case m.modal == modalForm:
		return m.placeCentered(m.viewFormModal())
	case m.modal == modalConfirmDelete:
		return m.placeCentered(m.viewConfirmDelete())
	case m.modal == modalTagFilter:
		return m.placeCentered(m.viewTagFilterModal())
	case m.view == viewDetail:
		return m.viewDetailScreen()
	default:
		return m.viewListScreen()
	}
}

func (m *appModel) placeCentered(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func sortArrow(o model.SortOrder) string {
	if o == model.SortAsc {
		return "↑"
	}
	return "↓"
}

func (m *appModel) viewHeader() string {
	email := ""
	if u, ok := m.deps.sess.CurrentUser(); ok {
		email = u.Email
	}
	field, order := m.deps.filters.Sort()

	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("TaskFlow"),
		styleMuted().Render(email),
		fmt.Sprintf("status:%s", m.deps.filters.Status()),
		fmt.Sprintf("sort:%s%s", field, sortArrow(order)),
	}
	if n := m.deps.filters.ActiveFilterCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("filters:%d", n))
	}
	if m.loading() {
		parts = append(parts, styleMuted().Render("syncing…"))
	}
	return strings.Join(parts, "  ")
}

func (m *appModel) viewSearchLine() string {
	if m.searchFocused {
		return m.searchInput.View()
	}
	if q := m.deps.filters.Search(); q != "" {
		return styleMuted().Render("/ " + q)
	}
	return styleMuted().Render("/ to search")
}

func (m *appModel) viewListScreen() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewSearchLine())
	b.WriteString("\n")
	b.WriteString(m.taskList.View())
	b.WriteString("\n")
	if e := m.storeErr(); e != "" {
		b.WriteString(styleError().Render(e))
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(
		"n new  e edit  x done  d delete  enter detail  s status  1/2/3 priority  t tags  o/O sort  c clear  r refresh  q quit"))
	return b.String()
}

func (m *appModel) viewDetailScreen() string {
	t, ok := m.detailTask()
	if !ok {
		return styleMuted().Render("task no longer in view  (esc: back)")
	}

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	title := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s %s", check, t.Title))

	meta := []string{
		"priority: " + string(t.Priority),
		"created: " + t.CreatedAt.Format("2006-01-02 15:04"),
		"updated: " + t.UpdatedAt.Format("2006-01-02 15:04"),
	}
	if len(t.Tags) > 0 {
		names := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			names[i] = "#" + tag.Name
		}
		meta = append(meta, strings.Join(names, " "))
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Join(meta, "   ")))
	b.WriteString("\n\n")
	if t.Description != "" {
		b.WriteString(renderMarkdown(t.Description, m.width-4))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("e edit  x done  esc back"))
	return b.String()
}

func (m *appModel) viewAuthModal() string {
	a := &m.auth

	title := "Sign in"
	hint := "enter: sign in   ctrl+t: create an account   esc: quit"
	if a.mode == authSignUp {
		title = "Sign up"
		hint = "enter: create account   ctrl+t: back to sign-in   esc: quit"
	}

	lines := []string{
		a.email.View(),
		a.password.View(),
	}
	if a.mode == authSignUp {
		lines = append(lines, a.name.View())
	}
	if a.submitting {
		lines = append(lines, "", styleMuted().Render("signing in…"))
	} else if a.errMsg != "" {
		lines = append(lines, "", styleError().Render(a.errMsg))
	}
	lines = append(lines, "", styleMuted().Width(modalBodyWidth(m.width)).Render(hint))

	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}

func (m *appModel) viewConfirmDelete() string {
	body := "Delete this task? This cannot be undone."
	if t, ok := m.selectedTask(); ok {
		body = fmt.Sprintf("Delete %q? This cannot be undone.", t.t.Title)
	}
	return renderConfirmModal(m.width, "Delete task", body, "Delete", "Cancel", m.confirmFocus)
}

func (m *appModel) viewTagFilterModal() string {
	help := styleMuted().Width(modalBodyWidth(m.width)).Render("enter/space: toggle   esc: close")
	return renderModalBox(m.width, "Filter by tag", m.tagFilterList.View()+"\n"+help)
}

func formLabel(s string, active bool) string {
	st := styleMuted()
	if active {
		st = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	}
	return st.Render(s)
}

func (m *appModel) viewFormModal() string {
	f := m.form
	if f == nil {
		return ""
	}

	title := "New task"
	if f.editID != 0 {
		title = "Edit task"
	}

	prio := lipgloss.NewStyle().
		Foreground(priorityColor(f.priority)).
		Render("● " + string(f.priority))
	if f.focus == focusPriority {
		prio += styleMuted().Render("   (space: change)")
	}

	chosen := "none"
	if len(f.chosen) > 0 {
		names := make([]string, len(f.chosen))
		for i, t := range f.chosen {
			names[i] = "#" + t.Name
		}
		chosen = strings.Join(names, " ")
	}

	lines := []string{
		formLabel("Title", f.focus == focusTitle),
		f.title.View(),
		"",
		formLabel("Description", f.focus == focusDescription),
		f.desc.View(),
		"",
		formLabel("Priority", f.focus == focusPriority),
		prio,
		"",
		formLabel("Tags", f.focus == focusTags) + "  " + styleMuted().Render(chosen),
		f.tagEntry.View(),
	}

	if f.focus == focusTags {
		lines = append(lines, m.viewTagSuggestions()...)
	}

	if f.errMsg != "" {
		lines = append(lines, "", styleError().Render(f.errMsg))
	} else if f.submitting {
		lines = append(lines, "", styleMuted().Render("saving…"))
	}
	lines = append(lines, "", styleMuted().Width(modalBodyWidth(m.width)).Render(
		"tab: next field   ctrl+s: save   esc: cancel"))

	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}

func (m *appModel) viewTagSuggestions() []string {
	if m.deps.completer.Searching() {
		return []string{styleMuted().Render("  searching…")}
	}
	suggestions := m.deps.completer.Suggestions()
	if len(suggestions) == 0 {
		return nil
	}
	lines := make([]string, 0, len(suggestions))
	for i, s := range suggestions {
		line := "  " + s
		if i == m.form.suggestIdx {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render("> " + s)
		}
		lines = append(lines, line)
	}
	return lines
}
