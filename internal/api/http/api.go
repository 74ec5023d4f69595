package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labstats/internal/domain"
	"labstats/internal/infrastructure/export"
)

func (h *handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.CreateSession(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+id)
	h.writeJSON(w, http.StatusCreated, sessionResponse{ID: id})
}

func (h *handler) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), chi.URLParam(r, paramSessionID))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, measurementsResponse{
		Count:        report.Count,
		Measurements: toMeasurementResponses(report.Measurements),
	})
}

func (h *handler) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	measurement, err := decodeMeasurement(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	report, err := h.service.AddMeasurement(r.Context(), chi.URLParam(r, paramSessionID), measurement)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toReportResponse(report, h.labels))
}

func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	measurements, err := export.ReadCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	report, err := h.service.ImportMeasurements(r.Context(), chi.URLParam(r, paramSessionID), measurements)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toReportResponse(report, h.labels))
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), chi.URLParam(r, paramSessionID))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toReportResponse(report, h.labels))
}

func decodeMeasurement(body io.Reader) (domain.Measurement, error) {
	var req measurementRequest
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.Measurement{}, fmt.Errorf("%w: request body too large", domain.ErrValidation)
		}
		return domain.Measurement{}, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}

	switch {
	case req.DrainedWeight == nil:
		return domain.Measurement{}, fmt.Errorf("%w: %s is required", domain.ErrValidation, domain.ChannelDrainedWeight)
	case req.DryWeight == nil:
		return domain.Measurement{}, fmt.Errorf("%w: %s is required", domain.ErrValidation, domain.ChannelDryWeight)
	}
	return domain.NewMeasurement(*req.DrainedWeight, *req.DryWeight)
}
