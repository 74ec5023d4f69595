package domain

import "errors"

var (
	// ErrValidation marks input rejected at the entry boundary.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidMeasurement is returned when a store is asked to hold a measurement breaking its invariant.
	ErrInvalidMeasurement = errors.New("invalid measurement")
	// ErrEmptyChannel is returned when statistics are requested for no values.
	ErrEmptyChannel = errors.New("channel has no values")
	// ErrInsufficientData is returned when analysis is requested below MinimumForAnalysis.
	ErrInsufficientData = errors.New("not enough measurements for analysis")
	// ErrSessionNotFound is returned for unknown or expired session identifiers.
	ErrSessionNotFound = errors.New("session not found")
)
