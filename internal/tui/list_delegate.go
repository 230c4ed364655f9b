package tui

import (
	"fmt"
	"io"
	"strings"

	"taskflow-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	t model.Task
}

func (i taskItem) Title() string       { return i.t.Title }
func (i taskItem) FilterValue() string { return i.t.Title }

func taskListItems(tasks []model.Task) []list.Item {
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{t: t})
	}
	return items
}

func priorityColor(p model.Priority) lipgloss.TerminalColor {
	switch p {
	case model.PriorityHigh:
		return colorPriorityHigh
	case model.PriorityLow:
		return colorPriorityLow
	default:
		return colorPriorityMedium
	}
}

// taskRow builds the plain-text row for a task before styling. Kept separate
// so truncation behavior is testable without a list.Model.
func taskRow(t model.Task, width int) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := fmt.Sprintf("%s %s", check, t.Title)
	if len(t.Tags) > 0 {
		names := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			names[i] = "#" + tag.Name
		}
		line += "  " + strings.Join(names, " ")
	}
	if w := xansi.StringWidth(line); w > width {
		line = xansi.Cut(line, 0, width)
	}
	return line
}

type taskDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
}

func newTaskDelegate() taskDelegate {
	return taskDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		done: lipgloss.NewStyle().Foreground(colorDone),
	}
}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 8 {
		fmt.Fprint(w, "")
		return
	}

	ti, ok := item.(taskItem)
	if !ok {
		fmt.Fprint(w, fmt.Sprint(item))
		return
	}

	// Reserve two cells for the priority dot.
	dot := lipgloss.NewStyle().Foreground(priorityColor(ti.t.Priority)).Render("●")
	line := taskRow(ti.t, contentW-2)

	style := d.normal
	if ti.t.Completed {
		style = d.done
	}
	if index == m.Index() {
		style = d.selected
	}

	if lineW := xansi.StringWidth(line); lineW < contentW-2 {
		line += strings.Repeat(" ", contentW-2-lineW)
	}

	fmt.Fprint(w, dot+" "+style.Render(line))
}
