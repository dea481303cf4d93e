package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateGrid:
		content = m.grid.View()
	case StateStats:
		content = docStyle.Render(m.stats.View())
	case StateAssign:
		content = m.viewForm("Assign selection")
	case StateConfirmErase:
		content = m.viewForm(dangerStyle.Render("Erase selection"))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Grid", "Stats"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	w := m.grid.Window()
	tabs = append(tabs, statusStyle.Render(fmt.Sprintf("  %s → %s", w.Start, w.End)))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewForm(title string) string {
	if m.form == nil {
		return ""
	}
	return lipgloss.Place(m.width, max(m.height-chromeRows, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
	)
}

func (m Model) viewStatus() string {
	n := len(m.store.SelectedIDs())
	left := fmt.Sprintf("%d selected", n)
	if m.store.IsDragging() {
		left += " · dragging"
	}
	if m.grid.Loading() {
		left += " · " + m.spinner.View() + " loading"
	}

	line := statusStyle.Render(left)
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = dangerStyle
		}
		line += "  " + style.Render(m.status)
	}
	return line
}
