package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/stats"
)

func sampleReport() Report {
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []models.Event{
		{ID: "-a", Unit: "1", Location: "sink-a", Duration: 10, LEDOn: true, Timestamp: day},
		{ID: "-b", Unit: "1", Location: "sink-a", Duration: 20, LEDOn: false, Timestamp: day.Add(24 * time.Hour)},
		{ID: "-c", Unit: "2", Location: "sink-b", Duration: 40, LEDOn: false, Timestamp: day},
	}
	return Report{
		GeneratedAt: day,
		Events:      events,
		Summary:     stats.Summarize(events),
		ByUnit:      stats.Aggregate(events, models.DimensionUnit, nil),
		ByLocation:  stats.Aggregate(events, models.DimensionLocation, nil),
		Histograms: []models.Histogram{
			stats.BuildHistogram(events, "1", 2, 30),
			stats.BuildHistogram(events, "2", 2, 30),
		},
		Daily: stats.DailyMeans(events, models.DimensionLocation),
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteWorkbook() failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	want := []string{"Summary", "By Unit", "By Location", "Distribution", "Events"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}

	rows, err := f.GetRows("By Unit")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("By Unit rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Unit" || rows[1][0] != "1" || rows[1][4] != "15" {
		t.Errorf("unexpected unit rows: %v", rows)
	}

	// Unit 2 has no LED-on sessions; the cell must stay blank.
	if v, _ := f.GetCellValue("By Unit", "C3"); v != "" {
		t.Errorf("absent mean written as %q", v)
	}

	dist, _ := f.GetRows("Distribution")
	if len(dist) != 3 || dist[0][1] != "[0,2)" {
		t.Errorf("unexpected distribution sheet: %v", dist)
	}

	events, _ := f.GetRows("Events")
	if len(events) != 4 {
		t.Errorf("Events rows = %d, want 4", len(events))
	}
}

func TestWriteHistogramPNG(t *testing.T) {
	tests := []struct {
		name string
		h    models.Histogram
	}{
		{"WithData", sampleReport().Histograms[0]},
		{"Empty", stats.BuildHistogram(nil, "5", 2, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteHistogramPNG(&buf, tt.h); err != nil {
				t.Fatalf("WriteHistogramPNG() failed: %v", err)
			}
			if _, err := png.Decode(&buf); err != nil {
				t.Errorf("output is not a PNG: %v", err)
			}
		})
	}
}

func TestWriteDailyPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDailyPNG(&buf, "daily", sampleReport().Daily); err != nil {
		t.Fatalf("WriteDailyPNG() failed: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}

	if err := WriteDailyPNG(&buf, "daily", nil); err == nil {
		t.Error("WriteDailyPNG(nil) should fail")
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteDir(dir, sampleReport())
	if err != nil {
		t.Fatalf("WriteDir() failed: %v", err)
	}

	want := []string{WorkbookName, HistogramFileName("1"), HistogramFileName("2"), DailyChartName}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for _, name := range want {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}
