package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labstats/internal/domain"
	"labstats/internal/infrastructure/charts"
	"labstats/internal/infrastructure/logging"
)

const (
	// SessionCookie binds a browser to its measurement session.
	SessionCookie = "labstats_session"

	paramSessionID = "id"
	paramKind      = "kind"

	maxBodyBytes = 4 << 20
)

// handler contains the HTTP handlers and shared dependencies.
type handler struct {
	service  domain.SessionService
	charts   *charts.Renderer
	labels   domain.Labels
	logger   *logging.Logger
	observer Observer
}

func registerRoutes(router chi.Router, h *handler) {
	router.Get("/health", h.handleHealth)
	router.Get("/healthz", h.handleHealth)

	router.Get("/", h.handleIndex)
	router.Post("/measurements", h.handleSubmitForm)
	router.Post("/import", h.handleImportForm)
	router.Get("/charts/{kind}.png", h.handleChart)
	router.Get("/export/measurements.csv", h.handleExportCSV)
	router.Get("/export/measurements.xlsx", h.handleExportXLSX)

	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/measurements", h.handleListMeasurements)
			r.Post("/measurements", h.handleAddMeasurement)
			r.Post("/import", h.handleImport)
			r.Get("/report", h.handleReport)
		})
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func (h *handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, domain.ErrValidation):
		h.observer.ObserveValidationFailure()
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrInsufficientData):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, charts.ErrUnknownKind):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.FromContext(r.Context(), h.logger).Error("request failed", logging.AttachError(err, "path", r.URL.Path)...)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message, Code: status})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
