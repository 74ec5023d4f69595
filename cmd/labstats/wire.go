//go:build wireinject

package main

import (
	"io"

	"github.com/google/wire"

	"labstats/internal/infrastructure/config"
)

var coreSet = wire.NewSet(
	provideLogger,
	provideLabels,
	provideRegistry,
	provideMetrics,
	provideStoreFactory,
	provideSessionManager,
	provideReportService,
	provideSessionService,
	provideRenderer,
)

func initApplication(cfg *config.Config, out io.Writer) (*application, error) {
	wire.Build(
		coreSet,
		provideHTTPServer,
		provideGRPCServer,
		provideMetricsServer,
		newApplication,
	)
	return nil, nil
}

func initBatch(cfg *config.Config, out io.Writer) (*batch, error) {
	wire.Build(
		coreSet,
		provideWorkerPool,
		newBatch,
	)
	return nil, nil
}
