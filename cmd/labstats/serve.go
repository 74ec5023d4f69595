package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"

	"labstats/internal/infrastructure/logging"
)

const shutdownTimeout = 5 * time.Second

func (app *application) run(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	logger := app.Logger
	cfg := app.Config
	logger.Info("configuration loaded",
		"http_addr", cfg.HTTPAddr,
		"grpc_addr", cfg.GRPCAddr,
		"metrics_addr", cfg.MetricsAddr,
		"log_level", cfg.LogLevel,
		"session_idle_timeout", cfg.Session.IdleTimeout.String(),
		"session_sweep_interval", cfg.Session.SweepInterval.String(),
		"label_locale", cfg.LabelLocale,
	)

	httpListener, err := net.Listen("tcp", app.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address %s: %w", app.HTTP.Addr, err)
	}
	var grpcListener, metricsListener net.Listener
	if cfg.GRPCAddr != "" {
		if grpcListener, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
			_ = httpListener.Close()
			return fmt.Errorf("listen on gRPC address %s: %w", cfg.GRPCAddr, err)
		}
	}
	if app.Metrics.Addr != "" {
		if metricsListener, err = net.Listen("tcp", app.Metrics.Addr); err != nil {
			_ = httpListener.Close()
			if grpcListener != nil {
				_ = grpcListener.Close()
			}
			return fmt.Errorf("listen on metrics address %s: %w", app.Metrics.Addr, err)
		}
	}

	serverErrs := make(chan error, 3)
	var group sync.WaitGroup

	group.Add(1)
	go func() {
		defer group.Done()
		app.Sessions.Run(ctx)
	}()

	group.Add(1)
	go func() {
		defer group.Done()
		logger.Info("HTTP server listening", "addr", httpListener.Addr().String())
		if err := app.HTTP.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrs <- fmt.Errorf("http server: %w", err)
		}
	}()

	if grpcListener != nil {
		group.Add(1)
		go func() {
			defer group.Done()
			logger.Info("gRPC server listening", "addr", grpcListener.Addr().String())
			if err := app.GRPC.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				serverErrs <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	} else {
		logger.Info("gRPC server disabled")
	}

	if metricsListener != nil {
		group.Add(1)
		go func() {
			defer group.Done()
			logger.Info("metrics server listening", "addr", metricsListener.Addr().String())
			if err := app.Metrics.Serve(metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrs <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	} else {
		logger.Info("metrics server disabled")
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-serverErrs:
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.HTTP.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", logging.AttachError(err)...)
	}
	if err := app.Metrics.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", logging.AttachError(err)...)
	}
	app.GRPC.GracefulStop()

	group.Wait()
	logger.Info("server stopped", "sessions", app.Sessions.Len())
	return serveErr
}
