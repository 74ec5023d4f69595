package charts

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstats/internal/domain"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func snapshotOf(n int) []domain.Measurement {
	rng := rand.New(rand.NewSource(7))
	snapshot := make([]domain.Measurement, n)
	for i := range snapshot {
		snapshot[i] = domain.Measurement{DrainedWeight: 200 + rng.NormFloat64()*15, DryWeight: 40 + rng.NormFloat64()*3}
	}
	return snapshot
}

func TestNewHistogramCountsEveryValue(t *testing.T) {
	t.Parallel()

	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	h := NewHistogram(values, HistogramBins)

	require.Len(t, h.Edges, HistogramBins+1)
	require.Len(t, h.Counts, HistogramBins)
	assert.Equal(t, len(values), h.Total())
	assert.Equal(t, 0.0, h.Edges[0])
	assert.Equal(t, 10.0, h.Edges[HistogramBins])
	// max lands in the closed last bin.
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 2}, h.Counts)
}

func TestNewHistogramZeroWidthRange(t *testing.T) {
	t.Parallel()

	h := NewHistogram([]float64{4, 4, 4}, HistogramBins)

	assert.Equal(t, 3.5, h.Edges[0])
	assert.Equal(t, 4.5, h.Edges[HistogramBins])
	assert.Equal(t, 3, h.Total())
	assert.Equal(t, 3, h.Counts[5])
}

func TestNewHistogramRandomTotals(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for n := 1; n < 60; n++ {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.ExpFloat64() * 100
		}
		assert.Equal(t, n, NewHistogram(values, HistogramBins).Total())
	}
}

func TestNewBoxSummaryOrdering(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	box := NewBoxSummary(values)

	assert.Equal(t, 5.0, box.Median)
	assert.LessOrEqual(t, box.LowerWhisker, box.Q1)
	assert.LessOrEqual(t, box.Q1, box.Median)
	assert.LessOrEqual(t, box.Median, box.Q3)
	assert.LessOrEqual(t, box.Q3, box.UpperWhisker)
	assert.Empty(t, box.Outliers)
	assert.Equal(t, 1.0, box.LowerWhisker)
	assert.Equal(t, 9.0, box.UpperWhisker)
}

func TestNewBoxSummaryOutliers(t *testing.T) {
	t.Parallel()

	values := []float64{10, 11, 10, 12, 11, 10, 11, 12, 10, 11, 100}
	box := NewBoxSummary(values)

	assert.Equal(t, []float64{100}, box.Outliers)
	assert.Less(t, box.UpperWhisker, 100.0)
	assert.Equal(t, 11, len(values), "input must not be modified")
	assert.Equal(t, 100.0, values[10])
}

func TestNewBoxSummaryEmpty(t *testing.T) {
	t.Parallel()

	box := NewBoxSummary(nil)
	assert.True(t, math.IsNaN(box.Median))
}

func TestStepOutlineClosesAtZero(t *testing.T) {
	t.Parallel()

	xs, ys := stepOutline(Histogram{Edges: []float64{0, 1, 2}, Counts: []int{3, 1}})

	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2}, xs)
	assert.Equal(t, []float64{0, 3, 3, 1, 1, 0}, ys)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseKind("BoxPlot")
	require.NoError(t, err)
	assert.Equal(t, KindBoxPlot, kind)

	_, err = ParseKind("pie")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRendererProducesPNG(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(640, 400, domain.DefaultLabels())
	snapshot := snapshotOf(domain.MinimumForAnalysis)

	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			data, err := renderer.PNG(kind, snapshot)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, pngMagic))
		})
	}
}

func TestRendererConstantChannels(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(0, 0, domain.DefaultLabels())
	snapshot := make([]domain.Measurement, domain.MinimumForAnalysis)
	for i := range snapshot {
		snapshot[i] = domain.Measurement{DrainedWeight: 5, DryWeight: 5}
	}

	for _, kind := range Kinds {
		data, err := renderer.PNG(kind, snapshot)
		require.NoError(t, err, kind)
		assert.True(t, bytes.HasPrefix(data, pngMagic), kind)
	}
}

func TestRendererRejectsEmptyAndUnknown(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(0, 0, domain.DefaultLabels())

	_, err := renderer.PNG(KindHistogram, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyChannel)

	_, err = renderer.PNG(Kind("pie"), snapshotOf(3))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
