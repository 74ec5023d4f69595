package generator_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstats/internal/application/generator"
	"labstats/internal/application/statistics"
	"labstats/internal/domain"
)

func TestGeneratorProducesValidMeasurements(t *testing.T) {
	t.Parallel()

	cfg := generator.DefaultConfig()
	cfg.RandSource = rand.NewSource(1)
	got := generator.New(cfg).Generate(500)

	require.Len(t, got, 500)
	for _, m := range got {
		require.NoError(t, m.Validate())
	}

	result, err := statistics.ComputeAll(got)
	require.NoError(t, err)
	drained, ok := result.Get(domain.ChannelDrainedWeight)
	require.True(t, ok)
	assert.InDelta(t, cfg.DrainedMean, drained.Mean, 3)
	assert.InDelta(t, cfg.DrainedStdDev, drained.StandardDeviation, 3)
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	newGen := func() *generator.Generator {
		cfg := generator.DefaultConfig()
		cfg.RandSource = rand.NewSource(42)
		return generator.New(cfg)
	}

	assert.Equal(t, newGen().Generate(20), newGen().Generate(20))
}

func TestGeneratorClampsAtZero(t *testing.T) {
	t.Parallel()

	gen := generator.New(generator.Config{DrainedMean: 0, DrainedStdDev: -50, DryMean: -10, DryStdDev: 1, RandSource: rand.NewSource(3)})
	for _, m := range gen.Generate(100) {
		assert.GreaterOrEqual(t, m.DrainedWeight, 0.0)
		assert.GreaterOrEqual(t, m.DryWeight, 0.0)
	}
	assert.Empty(t, gen.Generate(-1))
}
