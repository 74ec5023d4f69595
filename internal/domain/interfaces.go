package domain

import "context"

// MeasurementWriter appends measurements to a session's store.
type MeasurementWriter interface {
	Append(ctx context.Context, measurement Measurement) error
	AppendAll(ctx context.Context, measurements []Measurement) error
}

// MeasurementReader exposes read-only views of a store.
type MeasurementReader interface {
	Snapshot(ctx context.Context) []Measurement
	Count(ctx context.Context) int
	IsReadyForAnalysis(ctx context.Context) bool
}

// MeasurementStore aggregates the write and read capabilities of a session store.
type MeasurementStore interface {
	MeasurementWriter
	MeasurementReader
}

// Report is what the presentation layer renders for one snapshot.
// Statistics is nil unless Ready.
type Report struct {
	Count        int
	Ready        bool
	Remaining    int
	Measurements []Measurement
	Statistics   StatisticsResult
}

// ReportService turns a store snapshot into a report.
type ReportService interface {
	Build(ctx context.Context, store MeasurementReader) (Report, error)
}

// SessionService describes the behaviour exposed to transport layers.
// Every call runs as one serialized unit of work of the named session.
type SessionService interface {
	CreateSession(ctx context.Context) (string, error)
	AddMeasurement(ctx context.Context, sessionID string, measurement Measurement) (Report, error)
	ImportMeasurements(ctx context.Context, sessionID string, measurements []Measurement) (Report, error)
	Report(ctx context.Context, sessionID string) (Report, error)
}
