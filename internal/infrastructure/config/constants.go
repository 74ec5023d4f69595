package config

import "time"

// Environment variables read by Load. The matching flag is the lower-case
// name with dashes, e.g. HTTP_ADDR and --http-addr.
const (
	EnvHTTPAddr             = "HTTP_ADDR"
	EnvGRPCAddr             = "GRPC_ADDR"
	EnvMetricsAddr          = "METRICS_ADDR"
	EnvLogLevel             = "LOG_LEVEL"
	EnvSessionIdleTimeout   = "SESSION_IDLE_TIMEOUT"
	EnvSessionSweepInterval = "SESSION_SWEEP_INTERVAL"
	EnvLabelLocale          = "LABEL_LOCALE"
	EnvChartWidth           = "CHART_WIDTH"
	EnvChartHeight          = "CHART_HEIGHT"

	DefaultHTTPAddr             = ":8080"
	DefaultGRPCAddr             = ":50051"
	DefaultMetricsAddr          = ":2112"
	DefaultLogLevel             = "info"
	DefaultSessionIdleTimeout   = 30 * time.Minute
	DefaultSessionSweepInterval = time.Minute
	DefaultLabelLocale          = "en"
	DefaultChartWidth           = 800
	DefaultChartHeight          = 480
)
