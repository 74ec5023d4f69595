package memory

import (
	"context"
	"sync"

	"labstats/internal/domain"
)

// Repository stores one session's measurements in memory and satisfies the store contract.
type Repository struct {
	mu           sync.RWMutex
	measurements []domain.Measurement
}

// New creates an empty in-memory repository instance.
func New() *Repository {
	return &Repository{}
}

// Append stores a measurement at the end of the sequence.
func (r *Repository) Append(_ context.Context, measurement domain.Measurement) error {
	if err := measurement.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.measurements = append(r.measurements, measurement)
	return nil
}

// AppendAll stores every measurement or none of them.
func (r *Repository) AppendAll(_ context.Context, measurements []domain.Measurement) error {
	for _, m := range measurements {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.measurements = append(r.measurements, measurements...)
	return nil
}

// Snapshot returns a copy of the stored measurements in insertion order.
func (r *Repository) Snapshot(_ context.Context) []domain.Measurement {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make([]domain.Measurement, len(r.measurements))
	copy(copied, r.measurements)
	return copied
}

// Count returns the number of stored measurements.
func (r *Repository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.measurements)
}

// IsReadyForAnalysis reports whether enough measurements exist for statistics.
func (r *Repository) IsReadyForAnalysis(ctx context.Context) bool {
	return r.Count(ctx) >= domain.MinimumForAnalysis
}

var _ domain.MeasurementStore = (*Repository)(nil)
