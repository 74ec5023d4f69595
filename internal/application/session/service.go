package session

import (
	"context"

	"labstats/internal/domain"
)

// Service implements the session use-cases on top of a Manager.
type Service struct {
	sessions *Manager
	reports  domain.ReportService
}

// NewService creates a session service.
func NewService(sessions *Manager, reports domain.ReportService) *Service {
	return &Service{sessions: sessions, reports: reports}
}

// CreateSession starts an empty session and returns its identifier.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	return s.sessions.Create(ctx).ID, nil
}

// AddMeasurement appends one measurement and returns the report of the resulting snapshot.
func (s *Service) AddMeasurement(ctx context.Context, sessionID string, measurement domain.Measurement) (domain.Report, error) {
	return s.ImportMeasurements(ctx, sessionID, []domain.Measurement{measurement})
}

// ImportMeasurements appends all measurements or none and returns the resulting report.
func (s *Service) ImportMeasurements(ctx context.Context, sessionID string, measurements []domain.Measurement) (domain.Report, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.Report{}, err
	}

	var report domain.Report
	err = sess.Do(func(store domain.MeasurementStore) error {
		if err := store.AppendAll(ctx, measurements); err != nil {
			return err
		}
		s.sessions.addMeasurements(len(measurements))

		var buildErr error
		report, buildErr = s.reports.Build(ctx, store)
		return buildErr
	})
	if err != nil {
		return domain.Report{}, err
	}

	s.sessions.logger.Debug("measurements appended", "session", sessionID, "added", len(measurements), "count", report.Count)
	return report, nil
}

// Report returns the report of the session's current snapshot.
func (s *Service) Report(ctx context.Context, sessionID string) (domain.Report, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.Report{}, err
	}

	var report domain.Report
	err = sess.Do(func(store domain.MeasurementStore) error {
		var buildErr error
		report, buildErr = s.reports.Build(ctx, store)
		return buildErr
	})
	return report, err
}

var _ domain.SessionService = (*Service)(nil)
