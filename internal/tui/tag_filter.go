package tui

import (
	"fmt"
	"io"
	"strings"

	"taskflow-cli/internal/filter"
	"taskflow-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type tagFilterItem struct {
	tag model.Tag
}

func (i tagFilterItem) Title() string       { return i.tag.Name }
func (i tagFilterItem) FilterValue() string { return i.tag.Name }

func tagFilterItems(tags []model.Tag) []list.Item {
	items := make([]list.Item, 0, len(tags))
	for _, t := range tags {
		items = append(items, tagFilterItem{tag: t})
	}
	return items
}

// tagFilterDelegate renders the tag filter picker rows with a checkbox
// reflecting the live filter state.
type tagFilterDelegate struct {
	filters  *filter.State
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newTagFilterDelegate(filters *filter.State) tagFilterDelegate {
	return tagFilterDelegate{
		filters: filters,
		normal:  lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d tagFilterDelegate) Height() int                             { return 1 }
func (d tagFilterDelegate) Spacing() int                            { return 0 }
func (d tagFilterDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d tagFilterDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 6 {
		fmt.Fprint(w, "")
		return
	}

	ti, ok := item.(tagFilterItem)
	if !ok {
		fmt.Fprint(w, fmt.Sprint(item))
		return
	}

	check := "[ ]"
	if d.filters.HasTag(ti.tag.ID) {
		check = "[x]"
	}
	line := check + " #" + ti.tag.Name
	if lw := xansi.StringWidth(line); lw > contentW {
		line = xansi.Cut(line, 0, contentW)
	} else if lw < contentW {
		line += strings.Repeat(" ", contentW-lw)
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	fmt.Fprint(w, style.Render(line))
}
