package models

import "fmt"

// Histogram is a descriptive duration distribution for one unit.
// Edges has len(Counts)+1 entries; bin i covers [Edges[i], Edges[i+1]).
// Durations at or above the last edge are clamped into the last bin and
// also counted in Clipped.
type Histogram struct {
	Unit     string
	Edges    []float64
	Counts   []int
	BinWidth float64
	BinMax   float64
	Total    int
	Clipped  int
}

// Label returns the display title of the histogram.
func (h Histogram) Label() string {
	return "Unit " + h.Unit
}

// BinLabels returns "[lo,hi)" labels for every bin.
func (h Histogram) BinLabels() []string {
	labels := make([]string, len(h.Counts))
	for i := range h.Counts {
		labels[i] = fmt.Sprintf("[%g,%g)", h.Edges[i], h.Edges[i+1])
	}
	return labels
}

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() int {
	maxCount := 0
	for _, c := range h.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	return maxCount
}
