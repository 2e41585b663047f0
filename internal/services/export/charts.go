package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

var barColor = drawing.ColorFromHex("6495ED")

// WriteHistogramPNG renders a histogram as a bar chart.
func WriteHistogramPNG(w io.Writer, h models.Histogram) error {
	labels := h.BinLabels()
	bars := make([]chart.Value, len(h.Counts))
	for i, c := range h.Counts {
		bars[i] = chart.Value{
			Label: labels[i],
			Value: float64(c),
			Style: chart.Style{
				FillColor:   barColor,
				StrokeColor: drawing.ColorFromHex("00008B"),
				StrokeWidth: 1,
			},
		}
	}

	// An explicit range keeps empty histograms renderable.
	top := math.Max(1, float64(h.MaxCount()))
	bc := chart.BarChart{
		Title:      h.Label(),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      max(800, len(bars)*56+120),
		Height:     512,
		BarWidth:   40,
		Bars:       bars,
		YAxis: chart.YAxis{
			Name:  "Number of Sessions",
			Range: &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render histogram %s: %w", h.Label(), err)
	}
	return nil
}

var seriesColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

// WriteDailyPNG renders one line per series of per-day mean durations.
func WriteDailyPNG(w io.Writer, title string, daily []models.DailySeries) error {
	var series []chart.Series
	for i, s := range daily {
		if len(s.Points) == 0 {
			continue
		}
		times := make([]time.Time, len(s.Points))
		for j, p := range s.Points {
			times[j] = p.Day
		}
		ys := s.Values()

		// go-chart needs two X values per series.
		if len(times) == 1 {
			times = append(times, times[0].Add(24*time.Hour))
			ys = append(ys, ys[0])
		}

		col := seriesColors[i%len(seriesColors)]
		series = append(series, chart.TimeSeries{
			Name:    s.Key,
			XValues: times,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    4,
			},
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no daily data to render")
	}

	ch := chart.Chart{
		Title:      title,
		Width:      1024,
		Height:     512,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 48}},
		XAxis:      chart.XAxis{Name: "Date", ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Name: "Average Duration (seconds)"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %s: %w", title, err)
	}
	return nil
}
