// Package config loads service settings from flags, the environment and defaults.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"labstats/internal/domain"
)

// Session controls idle expiry of measurement sessions.
type Session struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// Chart holds the rendered chart size in pixels.
type Chart struct {
	Width  int
	Height int
}

// Config is the resolved service configuration.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string
	LogLevel    string
	Session     Session
	LabelLocale string
	Chart       Chart
}

// Labels returns the label set of the configured locale.
func (c *Config) Labels() domain.Labels {
	labels, err := domain.LabelsFor(c.LabelLocale)
	if err != nil {
		return domain.DefaultLabels()
	}
	return labels
}

// AddFlags registers one flag per setting on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(flagName(EnvHTTPAddr), DefaultHTTPAddr, "HTTP listen address")
	fs.String(flagName(EnvGRPCAddr), DefaultGRPCAddr, "gRPC listen address")
	fs.String(flagName(EnvMetricsAddr), DefaultMetricsAddr, "Prometheus metrics listen address")
	fs.String(flagName(EnvLogLevel), DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.Duration(flagName(EnvSessionIdleTimeout), DefaultSessionIdleTimeout, "idle time after which a session is discarded (0 disables expiry)")
	fs.Duration(flagName(EnvSessionSweepInterval), DefaultSessionSweepInterval, "interval between idle session sweeps")
	fs.String(flagName(EnvLabelLocale), DefaultLabelLocale, "label locale for reports and exports (en, de)")
	fs.Int(flagName(EnvChartWidth), DefaultChartWidth, "chart width in pixels")
	fs.Int(flagName(EnvChartHeight), DefaultChartHeight, "chart height in pixels")
}

// Load resolves every setting. Explicitly set flags win over environment
// variables, which win over defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(flagName(EnvHTTPAddr), DefaultHTTPAddr)
	v.SetDefault(flagName(EnvGRPCAddr), DefaultGRPCAddr)
	v.SetDefault(flagName(EnvMetricsAddr), DefaultMetricsAddr)
	v.SetDefault(flagName(EnvLogLevel), DefaultLogLevel)
	v.SetDefault(flagName(EnvSessionIdleTimeout), DefaultSessionIdleTimeout.String())
	v.SetDefault(flagName(EnvSessionSweepInterval), DefaultSessionSweepInterval.String())
	v.SetDefault(flagName(EnvLabelLocale), DefaultLabelLocale)
	v.SetDefault(flagName(EnvChartWidth), strconv.Itoa(DefaultChartWidth))
	v.SetDefault(flagName(EnvChartHeight), strconv.Itoa(DefaultChartHeight))

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	idleTimeout, err := getDuration(v, EnvSessionIdleTimeout)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := getDuration(v, EnvSessionSweepInterval)
	if err != nil {
		return nil, err
	}
	width, err := getPositiveInt(v, EnvChartWidth)
	if err != nil {
		return nil, err
	}
	height, err := getPositiveInt(v, EnvChartHeight)
	if err != nil {
		return nil, err
	}

	locale := strings.ToLower(strings.TrimSpace(v.GetString(flagName(EnvLabelLocale))))
	if _, err := domain.LabelsFor(locale); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvLabelLocale, err)
	}

	return &Config{
		HTTPAddr:    v.GetString(flagName(EnvHTTPAddr)),
		GRPCAddr:    v.GetString(flagName(EnvGRPCAddr)),
		MetricsAddr: v.GetString(flagName(EnvMetricsAddr)),
		LogLevel:    normalizeLogLevel(v.GetString(flagName(EnvLogLevel))),
		Session: Session{
			IdleTimeout:   idleTimeout,
			SweepInterval: sweepInterval,
		},
		LabelLocale: locale,
		Chart:       Chart{Width: width, Height: height},
	}, nil
}

func flagName(env string) string {
	return strings.ReplaceAll(strings.ToLower(env), "_", "-")
}

func getDuration(v *viper.Viper, env string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(flagName(env)))
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", env)
	}
	return parsed, nil
}

func getPositiveInt(v *viper.Viper, env string) (int, error) {
	raw := strings.TrimSpace(v.GetString(flagName(env)))
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", env)
	}
	return parsed, nil
}

// normalizeLogLevel maps the level to one of debug, info, warn or error.
func normalizeLogLevel(level string) string {
	switch level = strings.ToLower(strings.TrimSpace(level)); level {
	case "debug", "info", "warn", "error":
		return level
	case "warning":
		return "warn"
	default:
		return DefaultLogLevel
	}
}
