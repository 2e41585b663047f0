package distribution

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/export"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/stats"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

// View renders the distribution tab.
func (m *Model) View() string {
	sections := []string{m.renderHeader()}

	report, ok := m.state.GetReport()
	switch {
	case m.state.PassError() != nil:
		sections = append(sections, m.renderMessage(
			styles.ErrorTextStyle.Render(app.DescribeError(m.state.PassError()))))
	case !ok:
		sections = append(sections, m.renderMessage(
			styles.HelpStyle.Render("No refresh has completed yet. Press r to refresh.")))
	case len(report.Histograms) == 0:
		sections = append(sections, m.renderMessage(
			styles.HelpStyle.Render("No units configured or recorded")))
	default:
		idx := min(m.state.SelectedHistogram(), len(report.Histograms)-1)
		h := report.Histograms[idx]
		sections = append(sections,
			m.renderUnitSelector(report, idx),
			m.renderHistogram(h),
			m.renderLocations(report, h.Unit),
			m.renderDaily(report),
		)
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

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Duration Distribution")
	subtitle := styles.HelpStyle.Render("Session durations per unit, in seconds")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderMessage(msg string) string {
	return styles.CardStyle.Width(m.cardWidth()).Render(msg)
}

// renderUnitSelector lists every unit with the selected one highlighted.
func (m *Model) renderUnitSelector(report export.Report, selected int) string {
	var parts []string
	for i, h := range report.Histograms {
		label := fmt.Sprintf(" %s ", h.Label())
		if i == selected {
			parts = append(parts, styles.FocusedStyle.Render("▸"+label))
		} else {
			parts = append(parts, styles.HelpStyle.Render(" "+label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func (m *Model) renderHistogram(h models.Histogram) string {
	title := styles.CardTitleStyle.Render(fmt.Sprintf("%s: %d session(s), %gs bins", h.Label(), h.Total, h.BinWidth))
	body := components.RenderHistogram(h, m.cardWidth()-6)
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

// renderLocations breaks the selected unit down by sink location.
func (m *Model) renderLocations(report export.Report, unit string) string {
	rows := stats.Aggregate(report.Events, models.DimensionLocation, stats.ForUnit(unit))
	title := styles.CardTitleStyle.Render(fmt.Sprintf("Unit %s by location", unit))
	table := components.RenderAggregateTable(models.DimensionLocation, rows, -1, 0)
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

// renderDaily plots the daily mean duration of every location over the
// selected time range.
func (m *Model) renderDaily(report export.Report) string {
	events := stats.Select(report.Events, m.timeRange.Filter(report.Summary.Last))
	series := stats.DailyMeans(events, models.DimensionLocation)

	title := styles.CardTitleStyle.Render("Daily mean duration by location")
	rangeLabel := styles.HelpStyle.Render(fmt.Sprintf("Range: %s (t to change)", m.timeRange))

	rows := []string{title, rangeLabel, ""}
	if len(series) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No sessions in this range"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	days, data := components.AlignDaily(series)
	keys := make([]string, len(series))
	for i, s := range series {
		keys[i] = s.Key
	}

	caption := fmt.Sprintf("%s → %s", days[0].Format("Jan 2"), days[len(days)-1].Format("Jan 2"))
	rows = append(rows,
		components.RenderMultiLineChart(data, m.cardWidth()-16, 10, caption),
		"",
		components.RenderLegend(components.SeriesLegend(keys)),
	)
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
