package domain

// ChannelStats holds the descriptive measures of one channel.
// Degenerate measures are NaN, never zero.
type ChannelStats struct {
	Count             int
	Mean              float64
	Median            float64
	StandardDeviation float64
	Variance          float64
	Min               float64
	Max               float64
	Range             float64
	IndexOfDispersion float64
}

// ChannelResult pairs a channel with its statistics.
type ChannelResult struct {
	Channel Channel
	Stats   ChannelStats
}

// StatisticsResult is derived from one snapshot, in Channels order.
type StatisticsResult []ChannelResult

// Get returns the statistics computed for channel.
func (r StatisticsResult) Get(channel Channel) (ChannelStats, bool) {
	for _, c := range r {
		if c.Channel == channel {
			return c.Stats, true
		}
	}
	return ChannelStats{}, false
}

// Measure is a labeled value of ChannelStats used by renderers.
type Measure struct {
	Name  string
	Value float64
}

// Measures lists the eight measures in display order.
func (s ChannelStats) Measures() []Measure {
	return []Measure{
		{Name: "Mean", Value: s.Mean},
		{Name: "Median", Value: s.Median},
		{Name: "StandardDeviation", Value: s.StandardDeviation},
		{Name: "Variance", Value: s.Variance},
		{Name: "Min", Value: s.Min},
		{Name: "Max", Value: s.Max},
		{Name: "Range", Value: s.Range},
		{Name: "IndexOfDispersion", Value: s.IndexOfDispersion},
	}
}
