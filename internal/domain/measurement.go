package domain

import (
	"fmt"
	"math"
)

// Channel names one measured quantity of a Measurement.
type Channel string

const (
	ChannelDrainedWeight Channel = "drainedWeight"
	ChannelDryWeight     Channel = "dryWeight"
)

// Channels lists every channel in reporting order.
var Channels = []Channel{ChannelDrainedWeight, ChannelDryWeight}

// MinimumForAnalysis is the number of measurements required before statistics and charts are produced.
const MinimumForAnalysis = 15

// Measurement is one trial's paired observation in grams.
type Measurement struct {
	DrainedWeight float64
	DryWeight     float64
}

// NewMeasurement validates both weights and returns the measurement.
func NewMeasurement(drained, dry float64) (Measurement, error) {
	if err := checkWeight(ChannelDrainedWeight, drained); err != nil {
		return Measurement{}, err
	}
	if err := checkWeight(ChannelDryWeight, dry); err != nil {
		return Measurement{}, err
	}
	return Measurement{DrainedWeight: drained, DryWeight: dry}, nil
}

// Validate reports whether m satisfies the store invariant.
func (m Measurement) Validate() error {
	if err := checkWeight(ChannelDrainedWeight, m.DrainedWeight); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMeasurement, err)
	}
	if err := checkWeight(ChannelDryWeight, m.DryWeight); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMeasurement, err)
	}
	return nil
}

// Value returns the field of m projected by channel.
func (m Measurement) Value(channel Channel) float64 {
	switch channel {
	case ChannelDrainedWeight:
		return m.DrainedWeight
	case ChannelDryWeight:
		return m.DryWeight
	default:
		return math.NaN()
	}
}

// Project returns the values of one channel in snapshot order.
func Project(snapshot []Measurement, channel Channel) []float64 {
	values := make([]float64, len(snapshot))
	for i, m := range snapshot {
		values[i] = m.Value(channel)
	}
	return values
}

func checkWeight(channel Channel, value float64) error {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return fmt.Errorf("%w: %s must be a finite number", ErrValidation, channel)
	case value < 0:
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, channel)
	}
	return nil
}
