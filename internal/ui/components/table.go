package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

// AggregateHeaders are the column titles of an aggregate table; the first
// column is named after the grouping dimension.
func AggregateHeaders(dim models.Dimension) []string {
	return []string{dim.Title(), "Sessions", "Mean (s)", "LED on (s)", "LED off (s)"}
}

// AggregateCells formats one aggregate row. Absent means render as N/A.
func AggregateCells(row models.AggregateRow) []string {
	return []string{
		row.Key,
		fmt.Sprint(row.Count),
		fmt.Sprintf("%.1f", row.DurationCombined),
		models.FormatMean(row.DurationLEDOn),
		models.FormatMean(row.DurationLEDOff),
	}
}

// RenderAggregateTable renders aggregate rows as a bordered table. A
// negative selected index highlights nothing.
func RenderAggregateTable(dim models.Dimension, rows []models.AggregateRow, selected, width int) string {
	if len(rows) == 0 {
		return styles.HelpStyle.Render(fmt.Sprintf("No sessions by %s", dim))
	}

	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = AggregateCells(row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(AggregateHeaders(dim)...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableCellStyle.Bold(true).Foreground(styles.Primary)
			case row == selected:
				return styles.TableCellStyle.Inherit(styles.TableSelectedStyle)
			case col >= 3 && data[row][col] == "N/A":
				return styles.TableCellStyle.Inherit(styles.MissingValueStyle)
			case col > 0:
				return styles.TableCellStyle.Align(lipgloss.Right)
			default:
				return styles.TableCellStyle
			}
		})
	if width > 0 {
		t = t.Width(width)
	}

	return t.Render()
}
