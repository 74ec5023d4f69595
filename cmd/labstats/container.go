package main

import (
	"net/http"

	"google.golang.org/grpc"

	"labstats/internal/application/session"
	"labstats/internal/application/worker"
	"labstats/internal/domain"
	"labstats/internal/infrastructure/charts"
	"labstats/internal/infrastructure/config"
	"labstats/internal/infrastructure/logging"
)

// webServer serves the page, the exports and the JSON API.
type webServer struct {
	*http.Server
}

// metricsServer serves /metrics on its own listener.
type metricsServer struct {
	*http.Server
}

type application struct {
	Config   *config.Config
	Logger   *logging.Logger
	Sessions *session.Manager
	HTTP     webServer
	GRPC     *grpc.Server
	Metrics  metricsServer
}

func newApplication(cfg *config.Config, logger *logging.Logger, sessions *session.Manager, web webServer, grpcServer *grpc.Server, metrics metricsServer) *application {
	return &application{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		HTTP:     web,
		GRPC:     grpcServer,
		Metrics:  metrics,
	}
}

// batch runs one offline report without listeners.
type batch struct {
	Logger   *logging.Logger
	Labels   domain.Labels
	Service  domain.SessionService
	Renderer *charts.Renderer
	Pool     *worker.Pool
}

func newBatch(logger *logging.Logger, labels domain.Labels, service domain.SessionService, renderer *charts.Renderer, pool *worker.Pool) *batch {
	return &batch{Logger: logger, Labels: labels, Service: service, Renderer: renderer, Pool: pool}
}
