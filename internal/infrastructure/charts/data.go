// Package charts derives plot data from a measurement snapshot and renders it as PNG.
package charts

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// HistogramBins is the number of equal-width bins per channel.
const HistogramBins = 10

// whiskerSpan is the multiple of the interquartile range covered by the whiskers.
const whiskerSpan = 1.5

// Histogram holds bin edges and per-bin counts for one channel.
// len(Edges) == len(Counts)+1.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// Total returns the number of values counted.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// NewHistogram bins values into n equal-width bins spanning [min, max]. Every
// bin is half-open except the last, which includes max. A zero-width range is
// widened to [v-0.5, v+0.5].
func NewHistogram(values []float64, n int) Histogram {
	if n <= 0 {
		n = HistogramBins
	}
	h := Histogram{Edges: make([]float64, n+1), Counts: make([]int, n)}
	if len(values) == 0 {
		for i := range h.Edges {
			h.Edges[i] = float64(i)
		}
		return h
	}

	lo, hi := stats.Sample{Xs: values}.Bounds()
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[n] = hi

	for _, v := range values {
		idx := int(math.Floor((v - lo) / width))
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Counts[idx]++
	}
	return h
}

// BoxSummary is the five-number summary drawn by a box plot.
type BoxSummary struct {
	LowerWhisker float64
	Q1           float64
	Median       float64
	Q3           float64
	UpperWhisker float64
	Outliers     []float64
}

// IQR returns the interquartile range.
func (b BoxSummary) IQR() float64 {
	return b.Q3 - b.Q1
}

// NewBoxSummary computes quartiles of values. The whiskers reach the most
// extreme values within 1.5 IQR of the box; anything beyond is an outlier.
func NewBoxSummary(values []float64) BoxSummary {
	if len(values) == 0 {
		nan := math.NaN()
		return BoxSummary{LowerWhisker: nan, Q1: nan, Median: nan, Q3: nan, UpperWhisker: nan}
	}

	sample := (&stats.Sample{Xs: values}).Copy().Sort()
	box := BoxSummary{
		Q1:     sample.Quantile(0.25),
		Median: sample.Quantile(0.5),
		Q3:     sample.Quantile(0.75),
	}

	lowFence := box.Q1 - whiskerSpan*box.IQR()
	highFence := box.Q3 + whiskerSpan*box.IQR()
	box.LowerWhisker, box.UpperWhisker = box.Q1, box.Q3
	for _, v := range sample.Xs {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.LowerWhisker = math.Min(box.LowerWhisker, v)
		box.UpperWhisker = math.Max(box.UpperWhisker, v)
	}
	return box
}
