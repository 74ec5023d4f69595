package report

import (
	"context"
	"fmt"

	"labstats/internal/application/statistics"
	"labstats/internal/domain"
)

// Recorder observes every report snapshot Build produces, whichever request
// presents it.
type Recorder interface {
	ObserveReport(ready bool)
}

// Service builds reports behind the analysis gate.
type Service struct {
	recorder Recorder
}

// New creates a report service. recorder may be nil.
func New(recorder Recorder) *Service {
	return &Service{recorder: recorder}
}

// Build takes one snapshot of store and derives the report from it.
// Statistics are computed only once the snapshot reaches domain.MinimumForAnalysis.
func (s *Service) Build(ctx context.Context, store domain.MeasurementReader) (domain.Report, error) {
	snapshot := store.Snapshot(ctx)
	report := domain.Report{
		Count:        len(snapshot),
		Measurements: snapshot,
	}

	if report.Count < domain.MinimumForAnalysis {
		report.Remaining = domain.MinimumForAnalysis - report.Count
		s.observe(false)
		return report, nil
	}

	result, err := statistics.ComputeAll(snapshot)
	if err != nil {
		return domain.Report{}, fmt.Errorf("compute statistics: %w", err)
	}
	report.Ready = true
	report.Statistics = result
	s.observe(true)
	return report, nil
}

// RequireReady builds the report and fails with domain.ErrInsufficientData below the gate.
func (s *Service) RequireReady(ctx context.Context, store domain.MeasurementReader) (domain.Report, error) {
	report, err := s.Build(ctx, store)
	if err != nil {
		return domain.Report{}, err
	}
	return report, CheckReady(report)
}

// CheckReady fails with domain.ErrInsufficientData when report is below the gate.
func CheckReady(report domain.Report) error {
	if report.Ready {
		return nil
	}
	return fmt.Errorf("%w: %d more needed", domain.ErrInsufficientData, report.Remaining)
}

func (s *Service) observe(ready bool) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveReport(ready)
}

var _ domain.ReportService = (*Service)(nil)
