package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"labstats/internal/domain"
)

// Kind identifies one of the rendered charts.
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindScatter   Kind = "scatter"
	KindBoxPlot   Kind = "boxplot"
)

// Kinds lists every chart in page order.
var Kinds = []Kind{KindHistogram, KindScatter, KindBoxPlot}

// ErrUnknownKind is returned for chart names outside Kinds.
var ErrUnknownKind = errors.New("unknown chart kind")

// ParseKind maps a chart name to its Kind.
func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range Kinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

var channelColors = map[domain.Channel]drawing.Color{
	domain.ChannelDrainedWeight: drawing.ColorFromHex("1f77b4"),
	domain.ChannelDryWeight:     drawing.ColorFromHex("ff7f0e"),
}

// Renderer draws charts with a fixed size and label set.
type Renderer struct {
	width  int
	height int
	labels domain.Labels
}

// NewRenderer builds a Renderer. Non-positive dimensions fall back to the defaults.
func NewRenderer(width, height int, labels domain.Labels) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{width: width, height: height, labels: labels}
}

// Render writes the PNG encoding of the kind chart for snapshot to w.
func (r *Renderer) Render(w io.Writer, kind Kind, snapshot []domain.Measurement) error {
	if len(snapshot) == 0 {
		return domain.ErrEmptyChannel
	}

	var graph chart.Chart
	switch kind {
	case KindHistogram:
		graph = r.histogram(snapshot)
	case KindScatter:
		graph = r.scatter(snapshot)
	case KindBoxPlot:
		graph = r.boxPlot(snapshot)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	graph.Width = r.width
	graph.Height = r.height
	graph.Background = chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	return nil
}

// PNG renders the kind chart into memory.
func (r *Renderer) PNG(kind Kind, snapshot []domain.Measurement) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, kind, snapshot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) histogram(snapshot []domain.Measurement) chart.Chart {
	series := make([]chart.Series, 0, len(domain.Channels))
	xMin, xMax := math.Inf(1), math.Inf(-1)
	maxCount := 0

	for _, channel := range domain.Channels {
		h := NewHistogram(domain.Project(snapshot, channel), HistogramBins)
		xs, ys := stepOutline(h)
		xMin = math.Min(xMin, h.Edges[0])
		xMax = math.Max(xMax, h.Edges[len(h.Edges)-1])
		for _, c := range h.Counts {
			maxCount = max(maxCount, c)
		}

		color := channelColors[channel]
		series = append(series, chart.ContinuousSeries{
			Name:    r.labels.Channel(channel),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 1.5,
				FillColor:   color.WithAlpha(90),
			},
		})
	}

	graph := chart.Chart{
		Title:  "Histogram",
		XAxis:  chart.XAxis{Name: "Weight", Range: &chart.ContinuousRange{Min: xMin, Max: xMax}},
		YAxis:  chart.YAxis{Name: "Frequency", Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)}},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

// stepOutline traces the histogram as a closed staircase starting and ending at zero.
func stepOutline(h Histogram) ([]float64, []float64) {
	xs := make([]float64, 0, 2*len(h.Edges))
	ys := make([]float64, 0, 2*len(h.Edges))
	prev := 0.0
	for i, edge := range h.Edges {
		next := 0.0
		if i < len(h.Counts) {
			next = float64(h.Counts[i])
		}
		xs = append(xs, edge, edge)
		ys = append(ys, prev, next)
		prev = next
	}
	return xs, ys
}

func (r *Renderer) scatter(snapshot []domain.Measurement) chart.Chart {
	xs := domain.Project(snapshot, domain.ChannelDrainedWeight)
	ys := domain.Project(snapshot, domain.ChannelDryWeight)
	color := channelColors[domain.ChannelDrainedWeight]

	return chart.Chart{
		Title: "Scatter",
		XAxis: chart.XAxis{Name: r.labels.Channel(domain.ChannelDrainedWeight), Range: paddedRange(xs)},
		YAxis: chart.YAxis{Name: r.labels.Channel(domain.ChannelDryWeight), Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "measurements",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					DotColor:    color,
					DotWidth:    4,
				},
			},
		},
	}
}

func (r *Renderer) boxPlot(snapshot []domain.Measurement) chart.Chart {
	const halfWidth = 0.2

	var (
		series []chart.Series
		ticks  []chart.Tick
		all    []float64
	)
	for i, channel := range domain.Channels {
		values := domain.Project(snapshot, channel)
		all = append(all, values...)
		box := NewBoxSummary(values)
		x := float64(i + 1)
		color := channelColors[channel]
		line := chart.Style{StrokeColor: color, StrokeWidth: 1.5}

		series = append(series,
			chart.ContinuousSeries{
				Name:    r.labels.Channel(channel),
				XValues: []float64{x - halfWidth, x + halfWidth, x + halfWidth, x - halfWidth, x - halfWidth},
				YValues: []float64{box.Q1, box.Q1, box.Q3, box.Q3, box.Q1},
				Style:   line,
			},
			segment(x-halfWidth, box.Median, x+halfWidth, box.Median, chart.Style{StrokeColor: color, StrokeWidth: 2.5}),
			segment(x, box.Q3, x, box.UpperWhisker, line),
			segment(x, box.Q1, x, box.LowerWhisker, line),
			segment(x-halfWidth/2, box.UpperWhisker, x+halfWidth/2, box.UpperWhisker, line),
			segment(x-halfWidth/2, box.LowerWhisker, x+halfWidth/2, box.LowerWhisker, line),
		)
		if len(box.Outliers) > 0 {
			xs := make([]float64, len(box.Outliers))
			for j := range xs {
				xs[j] = x
			}
			series = append(series, chart.ContinuousSeries{
				XValues: xs,
				YValues: box.Outliers,
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent, DotColor: color, DotWidth: 3},
			})
		}
		ticks = append(ticks, chart.Tick{Value: x, Label: r.labels.Channel(channel)})
	}

	return chart.Chart{
		Title: "Box plot",
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(domain.Channels)) + 0.5},
			Ticks: ticks,
		},
		YAxis:  chart.YAxis{Name: "Weight", Range: paddedRange(all)},
		Series: series,
	}
}

func segment(x0, y0, x1, y1 float64, style chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{XValues: []float64{x0, x1}, YValues: []float64{y0, y1}, Style: style}
}

// paddedRange spans values with a 5% margin; a single distinct value gets ±0.5.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi <= lo {
		return &chart.ContinuousRange{Min: lo - 0.5, Max: lo + 0.5}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
