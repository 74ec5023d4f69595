package httpapi

import (
	"math"

	"labstats/internal/domain"
)

type measurementRequest struct {
	DrainedWeight *float64 `json:"drainedWeight"`
	DryWeight     *float64 `json:"dryWeight"`
}

type measurementResponse struct {
	DrainedWeight float64 `json:"drainedWeight"`
	DryWeight     float64 `json:"dryWeight"`
}

type sessionResponse struct {
	ID string `json:"id"`
}

type measurementsResponse struct {
	Count        int                   `json:"count"`
	Measurements []measurementResponse `json:"measurements"`
}

// Degenerate measures are encoded as null.
type channelStatsResponse struct {
	Channel           string   `json:"channel"`
	Label             string   `json:"label"`
	Count             int      `json:"count"`
	Mean              *float64 `json:"mean"`
	Median            *float64 `json:"median"`
	StandardDeviation *float64 `json:"standardDeviation"`
	Variance          *float64 `json:"variance"`
	Min               *float64 `json:"min"`
	Max               *float64 `json:"max"`
	Range             *float64 `json:"range"`
	IndexOfDispersion *float64 `json:"indexOfDispersion"`
}

type reportResponse struct {
	Count        int                    `json:"count"`
	Ready        bool                   `json:"ready"`
	Remaining    int                    `json:"remaining"`
	Minimum      int                    `json:"minimum"`
	Measurements []measurementResponse  `json:"measurements"`
	Statistics   []channelStatsResponse `json:"statistics"`
}

func toMeasurementResponses(snapshot []domain.Measurement) []measurementResponse {
	out := make([]measurementResponse, len(snapshot))
	for i, m := range snapshot {
		out[i] = measurementResponse{DrainedWeight: m.DrainedWeight, DryWeight: m.DryWeight}
	}
	return out
}

func toReportResponse(report domain.Report, labels domain.Labels) reportResponse {
	resp := reportResponse{
		Count:        report.Count,
		Ready:        report.Ready,
		Remaining:    report.Remaining,
		Minimum:      domain.MinimumForAnalysis,
		Measurements: toMeasurementResponses(report.Measurements),
		Statistics:   []channelStatsResponse{},
	}
	for _, result := range report.Statistics {
		s := result.Stats
		resp.Statistics = append(resp.Statistics, channelStatsResponse{
			Channel:           string(result.Channel),
			Label:             labels.Channel(result.Channel),
			Count:             s.Count,
			Mean:              finite(s.Mean),
			Median:            finite(s.Median),
			StandardDeviation: finite(s.StandardDeviation),
			Variance:          finite(s.Variance),
			Min:               finite(s.Min),
			Max:               finite(s.Max),
			Range:             finite(s.Range),
			IndexOfDispersion: finite(s.IndexOfDispersion),
		})
	}
	return resp
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
