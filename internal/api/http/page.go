package httpapi

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"labstats/internal/application/report"
	"labstats/internal/domain"
	"labstats/internal/infrastructure/charts"
	"labstats/internal/infrastructure/export"
	"labstats/internal/infrastructure/logging"
)

const maxImportBytes = 10 << 20

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageRow struct {
	Index         int
	DrainedWeight string
	DryWeight     string
}

type pageData struct {
	Locale       string
	DrainedLabel string
	DryLabel     string
	DrainedInput string
	DryInput     string
	Error        string

	Count     int
	Ready     bool
	Remaining int
	Minimum   int
	Rows      []pageRow
	Summary   string
	Charts    []charts.Kind
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	rep, err := h.inSession(w, r, func(id string) (domain.Report, error) {
		return h.service.Report(r.Context(), id)
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.renderPage(w, r, http.StatusOK, rep, pageData{})
}

func (h *handler) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	drained, dry := r.PostFormValue("drainedWeight"), r.PostFormValue("dryWeight")

	measurement, err := export.ParseMeasurement(drained, dry)
	if err == nil {
		_, err = h.inSession(w, r, func(id string) (domain.Report, error) {
			return h.service.AddMeasurement(r.Context(), id, measurement)
		})
	}
	if err != nil {
		h.respondPageError(w, r, err, pageData{DrainedInput: drained, DryInput: dry})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) handleImportForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondPageError(w, r, fmt.Errorf("%w: choose a CSV file to import", domain.ErrValidation), pageData{})
		return
	}
	defer file.Close()

	measurements, err := export.ReadCSV(file)
	if err == nil {
		_, err = h.inSession(w, r, func(id string) (domain.Report, error) {
			return h.service.ImportMeasurements(r.Context(), id, measurements)
		})
	}
	if err != nil {
		h.respondPageError(w, r, err, pageData{})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := charts.ParseKind(chi.URLParam(r, paramKind))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	rep, err := h.readyReport(w, r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	data, err := h.charts.PNG(kind, rep.Measurements)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (h *handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "csv", "text/csv; charset=utf-8", export.CSV)
}

func (h *handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.XLSX)
}

func (h *handler) serveExport(w http.ResponseWriter, r *http.Request, format, contentType string,
	encode func([]domain.Measurement, domain.Labels) ([]byte, error)) {
	rep, err := h.readyReport(w, r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	data, err := encode(rep.Measurements, h.labels)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.observer.ObserveExport(format)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="measurements.`+format+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// readyReport returns the cookie session's report, or ErrInsufficientData below the gate.
func (h *handler) readyReport(w http.ResponseWriter, r *http.Request) (domain.Report, error) {
	rep, err := h.inSession(w, r, func(id string) (domain.Report, error) {
		return h.service.Report(r.Context(), id)
	})
	if err != nil {
		return domain.Report{}, err
	}
	if err := report.CheckReady(rep); err != nil {
		return domain.Report{}, err
	}
	return rep, nil
}

// inSession runs fn against the cookie session, starting a new session when
// the cookie is missing or names an expired one.
func (h *handler) inSession(w http.ResponseWriter, r *http.Request, fn func(id string) (domain.Report, error)) (domain.Report, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		rep, err := fn(cookie.Value)
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return rep, err
		}
	}

	id, err := h.service.CreateSession(r.Context())
	if err != nil {
		return domain.Report{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logging.FromContext(r.Context(), h.logger).Info("session started", "session", id)
	return fn(id)
}

func (h *handler) respondPageError(w http.ResponseWriter, r *http.Request, err error, data pageData) {
	if !errors.Is(err, domain.ErrValidation) {
		h.respondServiceError(w, r, err)
		return
	}
	h.observer.ObserveValidationFailure()

	rep, repErr := h.inSession(w, r, func(id string) (domain.Report, error) {
		return h.service.Report(r.Context(), id)
	})
	if repErr != nil {
		h.respondServiceError(w, r, repErr)
		return
	}
	data.Error = err.Error()
	h.renderPage(w, r, http.StatusBadRequest, rep, data)
}

func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, rep domain.Report, data pageData) {
	data.Locale = h.labels.Locale
	data.DrainedLabel = h.labels.Channel(domain.ChannelDrainedWeight)
	data.DryLabel = h.labels.Channel(domain.ChannelDryWeight)
	data.Count = rep.Count
	data.Ready = rep.Ready
	data.Remaining = rep.Remaining
	data.Minimum = domain.MinimumForAnalysis
	data.Rows = make([]pageRow, len(rep.Measurements))
	for i, m := range rep.Measurements {
		data.Rows[i] = pageRow{
			Index:         i + 1,
			DrainedWeight: strconv.FormatFloat(m.DrainedWeight, 'g', -1, 64),
			DryWeight:     strconv.FormatFloat(m.DryWeight, 'g', -1, 64),
		}
	}
	if rep.Ready {
		var summary bytes.Buffer
		if err := report.WriteText(&summary, rep, h.labels); err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		data.Summary = summary.String()
		data.Charts = charts.Kinds
	}

	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, data); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = page.WriteTo(w)
}
