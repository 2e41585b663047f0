package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

var aggregateHeader = []string{
	"%s",
	"Sample Size",
	"Duration (LED on)",
	"Duration (LED off)",
	"Duration (combined)",
}

// WriteWorkbook writes the summary, both aggregate tables, the histogram
// counts and the raw events as sheets of one workbook.
func WriteWorkbook(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []sheet{
		summarySheet(r),
		aggregateSheet("By Unit", "Unit", r.ByUnit),
		aggregateSheet("By Location", "Location", r.ByLocation),
		distributionSheet(r.Histograms),
		eventsSheet(r.Events),
	}

	for i, s := range sheets {
		if i == 0 {
			// The default sheet becomes the first one so it stays active.
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("failed to rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := s.write(f, headerStyle); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type sheet struct {
	name   string
	header []string
	widths []float64
	rows   [][]any
}

func (s sheet) write(f *excelize.File, headerStyle int) error {
	for col, title := range s.header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(s.name, cell, title); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(s.name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		if col < len(s.widths) {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return fmt.Errorf("failed to convert column number: %w", err)
			}
			if err := f.SetColWidth(s.name, name, name, s.widths[col]); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	for r, row := range s.rows {
		for c, value := range row {
			// Absent values stay blank rather than becoming zero.
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(s.name, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func summarySheet(r Report) sheet {
	s := r.Summary
	rows := [][]any{
		{"Generated", r.GeneratedAt.Format(timeLayout)},
		{"Sessions", s.Sessions},
		{"Units", s.Units},
		{"Locations", s.Locations},
		{"Mean duration (s)", s.MeanDuration},
		{"LED on share", s.LEDOnShare},
	}
	if s.Sessions > 0 {
		rows = append(rows,
			[]any{"First session", s.First.Format(timeLayout)},
			[]any{"Last session", s.Last.Format(timeLayout)},
		)
	}
	return sheet{
		name:   "Summary",
		header: []string{"Metric", "Value"},
		widths: []float64{22, 24},
		rows:   rows,
	}
}

func aggregateSheet(name, keyTitle string, rows []models.AggregateRow) sheet {
	header := make([]string, len(aggregateHeader))
	copy(header, aggregateHeader)
	header[0] = fmt.Sprintf(header[0], keyTitle)

	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = []any{row.Key, row.Count, optional(row.DurationLEDOn), optional(row.DurationLEDOff), row.DurationCombined}
	}
	return sheet{
		name:   name,
		header: header,
		widths: []float64{14, 14, 20, 20, 22},
		rows:   out,
	}
}

func distributionSheet(histograms []models.Histogram) sheet {
	header := []string{"Unit"}
	if len(histograms) > 0 {
		header = append(header, histograms[0].BinLabels()...)
	}
	header = append(header, "Total", "Clamped")

	rows := make([][]any, len(histograms))
	for i, h := range histograms {
		row := []any{h.Unit}
		for _, c := range h.Counts {
			row = append(row, c)
		}
		rows[i] = append(row, h.Total, h.Clipped)
	}
	return sheet{name: "Distribution", header: header, widths: []float64{10}, rows: rows}
}

func eventsSheet(events []models.Event) sheet {
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = []any{e.ID, e.Timestamp.Format(timeLayout), e.Unit, e.Location, e.Duration, e.LEDOn}
	}
	return sheet{
		name:   "Events",
		header: []string{"ID", "Timestamp", "Unit", "Location", "Duration", "LED On"},
		widths: []float64{24, 20, 8, 14, 10, 8},
		rows:   rows,
	}
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
