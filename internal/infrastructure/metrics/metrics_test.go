package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(NewRegistry())
}

func TestRecordersUpdateCollectors(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	m.SetActiveSessions(3)
	m.AddMeasurements(2)
	m.AddMeasurements(5)
	m.ObserveReport(true)
	m.ObserveReport(false)
	m.ObserveReport(false)
	m.ObserveValidationFailure()
	m.ObserveExport("csv")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.measurementsAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reports.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reports.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("csv")))
}

func TestReportsCounterCountsSnapshots(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	m.ObserveReport(true)
	m.ObserveReport(true)

	expected := `
# HELP labstats_reports_total Total number of report snapshots built by readiness, including those behind page, chart and export requests.
# TYPE labstats_reports_total counter
labstats_reports_total{ready="true"} 2
`
	require.NoError(t, testutil.CollectAndCompare(m.reports, strings.NewReader(expected), "labstats_reports_total"))
}

func TestHTTPMiddlewareLabelsRoutePattern(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	router := chi.NewRouter()
	router.Use(m.HTTPMiddleware)
	router.Get("/charts/{kind}.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/charts/histogram.png", "/charts/scatter.png", "/health"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	t.Log("both chart requests share one route label")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/charts/{kind}.png", "409")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/health", "200")))
}

func TestUnaryServerInterceptorCountsCodes(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	interceptor := m.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/labstats.v1.SessionService/GetReport"}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.grpcRequests.WithLabelValues(info.FullMethod, "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.grpcRequests.WithLabelValues(info.FullMethod, "NotFound")))
}

func TestHandlerServesExposition(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)
	m.AddMeasurements(1)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "labstats_measurements_appended_total 1")
}
