// Package export writes pass results to spreadsheet and image files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// Report is everything one refresh pass produced.
type Report struct {
	GeneratedAt time.Time
	Events      []models.Event
	ByUnit      []models.AggregateRow
	ByLocation  []models.AggregateRow
	Histograms  []models.Histogram
	Daily       []models.DailySeries
	Summary     models.Summary
}

// WorkbookName is the spreadsheet file written by WriteDir.
const WorkbookName = "report.xlsx"

// HistogramFileName returns the PNG file name for a unit's histogram.
func HistogramFileName(unit string) string {
	return fmt.Sprintf("histogram_unit_%s.png", unit)
}

// DailyChartName is the daily mean chart written by WriteDir.
const DailyChartName = "daily_means.png"

// WriteDir writes the workbook and one chart per histogram into dir and
// returns the created paths.
func WriteDir(dir string, r Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var written []string
	write := func(name string, fn func(f *os.File) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if err := fn(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(WorkbookName, func(f *os.File) error { return WriteWorkbook(f, r) }); err != nil {
		return written, err
	}

	for _, h := range r.Histograms {
		if err := write(HistogramFileName(h.Unit), func(f *os.File) error { return WriteHistogramPNG(f, h) }); err != nil {
			return written, err
		}
	}

	if len(r.Daily) > 0 {
		if err := write(DailyChartName, func(f *os.File) error { return WriteDailyPNG(f, "Mean duration by location", r.Daily) }); err != nil {
			return written, err
		}
	}

	logger.Info("Export written", "dir", dir, "files", len(written))
	return written, nil
}
