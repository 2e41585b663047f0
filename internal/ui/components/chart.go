// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

// SeriesColors pairs asciigraph series colors with their legend colors.
var SeriesColors = []struct {
	Graph  asciigraph.AnsiColor
	Legend lipgloss.Color
}{
	{asciigraph.Red, lipgloss.Color("9")},
	{asciigraph.Blue, lipgloss.Color("12")},
	{asciigraph.Green, lipgloss.Color("10")},
	{asciigraph.Yellow, lipgloss.Color("11")},
	{asciigraph.Magenta, lipgloss.Color("13")},
	{asciigraph.Cyan, lipgloss.Color("14")},
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderMultiLineChart plots several aligned series. NaN values are gaps.
func RenderMultiLineChart(series [][]float64, width, height int, caption string) string {
	if len(series) == 0 || allNaN(series) {
		return styles.HelpStyle.Render("No data available")
	}
	if len(series) == 1 {
		return RenderLineChart(series[0], width, height, caption)
	}

	width = max(width, 20)
	height = max(height, 3)

	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		colors[i] = SeriesColors[i%len(SeriesColors)].Graph
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

func allNaN(series [][]float64) bool {
	for _, s := range series {
		for _, v := range s {
			if !math.IsNaN(v) {
				return false
			}
		}
	}
	return true
}

// AlignDaily puts every series on a shared day axis. Days a series has no
// events on are NaN.
func AlignDaily(series []models.DailySeries) ([]time.Time, [][]float64) {
	var days []time.Time
	for _, s := range series {
		for _, p := range s.Points {
			if !slices.ContainsFunc(days, p.Day.Equal) {
				days = append(days, p.Day)
			}
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	data := make([][]float64, len(series))
	for i, s := range series {
		row := make([]float64, len(days))
		for j := range row {
			row[j] = math.NaN()
		}
		for _, p := range s.Points {
			if j := slices.IndexFunc(days, p.Day.Equal); j >= 0 {
				row[j] = p.MeanDuration
			}
		}
		data[i] = row
	}
	return days, data
}

// RenderHistogram draws one horizontal bar per bin with its count. Clamped
// values are called out below the bars.
func RenderHistogram(h models.Histogram, width int) string {
	if len(h.Counts) == 0 {
		return styles.HelpStyle.Render("No bins configured")
	}
	if h.Total == 0 {
		return styles.HelpStyle.Render(fmt.Sprintf("No sessions recorded for %s", h.Label()))
	}

	labels := h.BinLabels()
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, len(l))
	}

	maxCount := max(h.MaxCount(), 1)
	countWidth := len(fmt.Sprint(maxCount))
	barWidth := max(width-labelWidth-countWidth-4, 10)

	barStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	lastStyle := lipgloss.NewStyle().Foreground(styles.Warning)

	lines := make([]string, 0, len(labels)+2)
	for i, count := range h.Counts {
		barLen := int(math.Round(float64(count) / float64(maxCount) * float64(barWidth)))
		if count > 0 && barLen == 0 {
			barLen = 1
		}

		style := barStyle
		if i == len(h.Counts)-1 && h.Clipped > 0 {
			style = lastStyle
		}

		lines = append(lines, fmt.Sprintf("%*s │%s %*d",
			labelWidth, labels[i],
			style.Render(strings.Repeat("█", barLen))+strings.Repeat(" ", barWidth-barLen),
			countWidth, count,
		))
	}

	if h.Clipped > 0 {
		lines = append(lines, "",
			styles.WarningTextStyle.Render(fmt.Sprintf(
				"%d session(s) at or above %gs counted in the last bin", h.Clipped, h.BinMax)))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	step := max(float64(len(values))/float64(width), 1)

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// SeriesLegend builds legend items matching RenderMultiLineChart colors.
func SeriesLegend(keys []string) []LegendItem {
	items := make([]LegendItem, len(keys))
	for i, k := range keys {
		items[i] = LegendItem{Label: k, Color: SeriesColors[i%len(SeriesColors)].Legend}
	}
	return items
}
