// Package statistics computes the descriptive measures reported for each channel.
package statistics

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"labstats/internal/domain"
)

// Compute returns the eight descriptive measures of channel.
// The input is not modified. Variance and StandardDeviation use the n-1
// denominator and are NaN for a single value; IndexOfDispersion is NaN when
// the mean is zero.
func Compute(channel []float64) (domain.ChannelStats, error) {
	n := len(channel)
	if n == 0 {
		return domain.ChannelStats{}, domain.ErrEmptyChannel
	}

	sample := stats.Sample{Xs: channel}
	minValue, maxValue := sample.Bounds()
	mean := sample.Mean()

	variance := math.NaN()
	if n > 1 {
		variance = sample.Variance()
	}

	dispersion := math.NaN()
	if mean != 0 {
		dispersion = variance / mean
	}

	return domain.ChannelStats{
		Count:             n,
		Mean:              mean,
		Median:            median(channel),
		StandardDeviation: math.Sqrt(variance),
		Variance:          variance,
		Min:               minValue,
		Max:               maxValue,
		Range:             maxValue - minValue,
		IndexOfDispersion: dispersion,
	}, nil
}

// ComputeAll computes every channel of snapshot independently.
func ComputeAll(snapshot []domain.Measurement) (domain.StatisticsResult, error) {
	if len(snapshot) == 0 {
		return nil, domain.ErrEmptyChannel
	}

	result := make(domain.StatisticsResult, 0, len(domain.Channels))
	for _, channel := range domain.Channels {
		channelStats, err := Compute(domain.Project(snapshot, channel))
		if err != nil {
			return nil, err
		}
		result = append(result, domain.ChannelResult{Channel: channel, Stats: channelStats})
	}
	return result, nil
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
