// Package generator produces synthetic measurement series for demos and load checks.
package generator

import (
	"math"
	"math/rand"
	"time"

	"labstats/internal/domain"
)

// Config describes the distribution of generated weights.
type Config struct {
	DrainedMean   float64
	DrainedStdDev float64
	DryMean       float64
	DryStdDev     float64
	RandSource    rand.Source
}

// DefaultConfig returns a plausible drained/dry weight distribution in grams.
func DefaultConfig() Config {
	return Config{DrainedMean: 200, DrainedStdDev: 15, DryMean: 40, DryStdDev: 4}
}

// Generator draws normally distributed, non-negative measurement pairs.
type Generator struct {
	cfg Config
	rnd *rand.Rand
}

// New creates a configured generator instance.
func New(cfg Config) *Generator {
	source := cfg.RandSource
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	cfg.DrainedStdDev = math.Abs(cfg.DrainedStdDev)
	cfg.DryStdDev = math.Abs(cfg.DryStdDev)

	return &Generator{cfg: cfg, rnd: rand.New(source)}
}

// Generate returns n measurements. Every one satisfies Measurement.Validate.
func (g *Generator) Generate(n int) []domain.Measurement {
	if n < 0 {
		n = 0
	}
	out := make([]domain.Measurement, n)
	for i := range out {
		out[i] = domain.Measurement{
			DrainedWeight: g.draw(g.cfg.DrainedMean, g.cfg.DrainedStdDev),
			DryWeight:     g.draw(g.cfg.DryMean, g.cfg.DryStdDev),
		}
	}
	return out
}

// draw rounds to two decimals, like a lab scale, and clamps at zero.
func (g *Generator) draw(mean, stddev float64) float64 {
	v := mean + g.rnd.NormFloat64()*stddev
	return math.Max(0, math.Round(v*100)/100)
}
