package stats

import (
	"math"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// Default histogram shape in seconds.
const (
	DefaultBinWidth = 2.0
	DefaultBinMax   = 30.0
)

// BuildHistogram buckets the durations of one unit into half-open bins
// [0,w), [w,2w), ... up to binMax. Durations at or above binMax are clamped
// into the last bin and counted in Clipped, so the counts always sum to the
// number of matching events. Invalid shapes fall back to the defaults.
func BuildHistogram(events []models.Event, unit string, binWidth, binMax float64) models.Histogram {
	if !(binWidth > 0) || math.IsInf(binWidth, 0) || !(binMax >= binWidth) || math.IsInf(binMax, 0) {
		binWidth, binMax = DefaultBinWidth, DefaultBinMax
	}

	bins := int(math.Ceil(binMax/binWidth - 1e-9))
	edges := make([]float64, bins+1)
	for i := range bins {
		edges[i] = float64(i) * binWidth
	}
	edges[bins] = binMax

	h := models.Histogram{
		Unit:     unit,
		Edges:    edges,
		Counts:   make([]int, bins),
		BinWidth: binWidth,
		BinMax:   binMax,
	}

	for _, e := range events {
		if e.Unit != unit {
			continue
		}
		h.Total++

		if e.Duration >= binMax {
			h.Counts[bins-1]++
			h.Clipped++
			continue
		}
		i := int(e.Duration / binWidth)
		if i >= bins {
			i = bins - 1
		}
		h.Counts[i]++
	}

	return h
}
