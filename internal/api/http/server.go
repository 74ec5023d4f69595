// Package httpapi serves the measurement page, chart images, exports and the JSON API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"labstats/internal/domain"
	"labstats/internal/infrastructure/charts"
	"labstats/internal/infrastructure/logging"
)

// Observer receives transport level events. The Prometheus metrics satisfy it.
type Observer interface {
	ObserveValidationFailure()
	ObserveExport(format string)
}

// Options carries the dependencies of the HTTP transport.
type Options struct {
	Service  domain.SessionService
	Charts   *charts.Renderer
	Labels   domain.Labels
	Logger   *logging.Logger
	Observer Observer

	// Middleware runs after request IDs are assigned, before routing.
	Middleware []func(http.Handler) http.Handler
}

// Server exposes the HTTP transport for the session service.
type Server struct {
	router chi.Router
}

// NewServer constructs a chi based HTTP server that forwards requests to the session service.
func NewServer(opts Options) *Server {
	h := &handler{
		service:  opts.Service,
		charts:   opts.Charts,
		labels:   opts.Labels,
		logger:   opts.Logger,
		observer: opts.Observer,
	}
	if h.charts == nil {
		h.charts = charts.NewRenderer(0, 0, opts.Labels)
	}
	if h.observer == nil {
		h.observer = noopObserver{}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(opts.Logger))
	for _, mw := range opts.Middleware {
		router.Use(mw)
	}
	registerRoutes(router, h)

	return &Server{router: router}
}

// Router returns the configured chi router for reuse in tests or external HTTP servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			reqLogger := logger.With("request_id", middleware.GetReqID(r.Context()))

			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))

			reqLogger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

type noopObserver struct{}

func (noopObserver) ObserveValidationFailure() {}
func (noopObserver) ObserveExport(string)      {}
