package events

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

// View renders the events tab.
func (m *Model) View() string {
	sections := []string{styles.TitleStyle.Render("All Records")}

	switch {
	case m.state.IsInitialLoading():
		sections = append(sections, styles.HelpStyle.Render("Loading records..."))
	case m.state.PassError() != nil:
		sections = append(sections,
			styles.ErrorTextStyle.Render("✗ "+app.DescribeError(m.state.PassError())))
	case m.total == 0:
		sections = append(sections, styles.HelpStyle.Render("No refresh has completed yet. Press r to refresh."))
	default:
		sections = append(sections, m.renderFilter(), "", m.renderTable())
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderFilter shows the active unit filter and how many records pass it.
func (m *Model) renderFilter() string {
	unit := styles.FocusedStyle.Render("all units")
	if m.unit != "" {
		unit = styles.FocusedStyle.Render("unit " + m.unit)
	}
	count := styles.HelpStyle.Render(fmt.Sprintf("%d of %d sessions", m.shown, m.total))
	return fmt.Sprintf("Showing %s  %s", unit, count)
}

func (m *Model) renderTable() string {
	return styles.CardStyle.Width(max(m.width-6, 50)).Render(m.table.View())
}
