package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/export"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

const dateLayout = "Jan 2, 2006 15:04"

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.Centered(m.width, m.height)
	}

	sections := []string{m.renderTitle()}

	report, ok := m.state.GetReport()
	switch {
	case m.state.PassError() != nil:
		sections = append(sections, m.renderError(m.state.PassError()))
	case !ok:
		sections = append(sections, styles.HelpStyle.Render("No refresh has completed yet. Press r to refresh."))
	default:
		sections = append(sections, m.renderSummary(report), m.renderShares())
		for _, dim := range m.tableOrder() {
			sections = append(sections, m.renderTable(report, dim))
		}
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Handwashing Dashboard")
	subtitle := styles.HelpStyle.Render("Session durations by unit and sink location")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderError replaces every table when the last pass failed.
func (m *Model) renderError(err error) string {
	rows := []string{
		styles.ErrorTextStyle.Bold(true).Render("✗ Refresh failed"),
		"",
		styles.ErrorTextStyle.Render(app.DescribeError(err)),
		"",
		styles.HelpStyle.Render("No tables are shown until a refresh succeeds. Press r to retry."),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderSummary(report export.Report) string {
	s := report.Summary

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Summary")),
		renderField("Sessions", fmt.Sprint(s.Sessions)),
		renderField("Units", fmt.Sprint(s.Units)),
		renderField("Locations", fmt.Sprint(s.Locations)),
		renderField("Mean duration", fmt.Sprintf("%.1f s", s.MeanDuration)),
		renderField("Period", fmt.Sprintf("%s → %s", s.First.Format(dateLayout), s.Last.Format(dateLayout))),
		"",
		m.shareBar.View(m.shareBar.Percent(), "LED on", m.cardWidth()-6),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderField(label, value string) string {
	labelStyle := lipgloss.NewStyle().Width(16).Foreground(styles.TextMuted)
	return labelStyle.Render(label+":") + " " + lipgloss.NewStyle().Bold(true).Render(value)
}

// renderShares renders one LED-on share bar per unit.
func (m *Model) renderShares() string {
	rows := []string{styles.CardTitleStyle.Render("LED-on share by unit")}
	for _, share := range m.shares {
		rows = append(rows, components.SimpleShareBar(share.Percent, fmt.Sprintf("Unit %-6s", share.Unit), m.cardWidth()-6))
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderTable(report export.Report, dim models.Dimension) string {
	rows := report.ByUnit
	if dim == models.DimensionLocation {
		rows = report.ByLocation
	}

	title := styles.CardTitleStyle.Render("By " + dim.String())
	table := components.RenderAggregateTable(dim, rows, -1, 0)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}
