package main

import (
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"

	grpcapi "labstats/internal/api/grpc"
	httpapi "labstats/internal/api/http"
	"labstats/internal/application/report"
	"labstats/internal/application/session"
	"labstats/internal/application/worker"
	"labstats/internal/domain"
	"labstats/internal/infrastructure/charts"
	"labstats/internal/infrastructure/config"
	"labstats/internal/infrastructure/logging"
	"labstats/internal/infrastructure/metrics"
	"labstats/internal/infrastructure/repository/memory"
)

const serviceName = "labstats"

func provideLogger(cfg *config.Config, out io.Writer) *logging.Logger {
	return logging.New(cfg.LogLevel, logging.WithWriter(out)).With("service", serviceName)
}

func provideLabels(cfg *config.Config) domain.Labels {
	return cfg.Labels()
}

func provideRegistry() *prometheus.Registry {
	return metrics.NewRegistry()
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideStoreFactory() session.StoreFactory {
	return func() domain.MeasurementStore {
		return memory.New()
	}
}

func provideSessionManager(cfg *config.Config, newStore session.StoreFactory, logger *logging.Logger, m *metrics.Metrics) *session.Manager {
	return session.NewManager(session.Config{
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
	}, newStore, logger, session.WithRecorder(m))
}

func provideReportService(m *metrics.Metrics) *report.Service {
	return report.New(m)
}

func provideSessionService(sessions *session.Manager, reports *report.Service) domain.SessionService {
	return session.NewService(sessions, reports)
}

func provideRenderer(cfg *config.Config, labels domain.Labels) *charts.Renderer {
	return charts.NewRenderer(cfg.Chart.Width, cfg.Chart.Height, labels)
}

func provideWorkerPool(logger *logging.Logger) *worker.Pool {
	return worker.New(runtime.NumCPU(), logger)
}

func provideHTTPServer(cfg *config.Config, service domain.SessionService, renderer *charts.Renderer, labels domain.Labels, logger *logging.Logger, m *metrics.Metrics) webServer {
	handler := httpapi.NewServer(httpapi.Options{
		Service:    service,
		Charts:     renderer,
		Labels:     labels,
		Logger:     logger,
		Observer:   m,
		Middleware: []func(http.Handler) http.Handler{m.HTTPMiddleware},
	})
	return webServer{Server: &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
}

func provideGRPCServer(service domain.SessionService, labels domain.Labels, logger *logging.Logger, m *metrics.Metrics) *grpc.Server {
	return grpcapi.NewServer(service, labels, logger, m.UnaryServerInterceptor())
}

func provideMetricsServer(cfg *config.Config, m *metrics.Metrics) metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return metricsServer{Server: &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}
