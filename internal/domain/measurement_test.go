package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeasurementAcceptsNonNegative(t *testing.T) {
	m, err := NewMeasurement(0, 12.75)

	require.NoError(t, err)
	assert.Equal(t, Measurement{DrainedWeight: 0, DryWeight: 12.75}, m)
}

func TestNewMeasurementRejectsInvalidWeights(t *testing.T) {
	cases := []struct {
		name    string
		drained float64
		dry     float64
		field   string
	}{
		{name: "negative drained", drained: -0.01, dry: 1, field: "drainedWeight"},
		{name: "negative dry", drained: 1, dry: -5, field: "dryWeight"},
		{name: "nan", drained: math.NaN(), dry: 1, field: "drainedWeight"},
		{name: "inf", drained: 1, dry: math.Inf(1), field: "dryWeight"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMeasurement(tc.drained, tc.dry)

			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestMeasurementValidateWrapsInvalidMeasurement(t *testing.T) {
	err := Measurement{DrainedWeight: -1}.Validate()

	assert.ErrorIs(t, err, ErrInvalidMeasurement)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProjectKeepsOrder(t *testing.T) {
	snapshot := []Measurement{{1, 10}, {2, 20}, {3, 30}}

	assert.Equal(t, []float64{1, 2, 3}, Project(snapshot, ChannelDrainedWeight))
	assert.Equal(t, []float64{10, 20, 30}, Project(snapshot, ChannelDryWeight))
}

func TestStatisticsResultGet(t *testing.T) {
	result := StatisticsResult{
		{Channel: ChannelDrainedWeight, Stats: ChannelStats{Mean: 1}},
		{Channel: ChannelDryWeight, Stats: ChannelStats{Mean: 2}},
	}

	stats, ok := result.Get(ChannelDryWeight)
	require.True(t, ok)
	assert.Equal(t, 2.0, stats.Mean)

	_, ok = result.Get(Channel("unknown"))
	assert.False(t, ok)
}

func TestLabelsFor(t *testing.T) {
	de, err := LabelsFor("DE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Abtropfgewicht", "Trockengewicht"}, de.Header())
	assert.Equal(t, "Mittelwert", de.Measure("Mean"))

	en := DefaultLabels()
	assert.Equal(t, []string{"drainedWeight", "dryWeight"}, en.Header())
	assert.Equal(t, "Mean", en.Measure("Mean"))

	_, err = LabelsFor("fr")
	assert.Error(t, err)
}
