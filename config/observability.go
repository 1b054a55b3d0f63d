package config

import (
	"fmt"
	"strings"
)

const defaultObservabilityName = "stockdesk"

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// UnmarshalText implements encoding.TextUnmarshaler for LogFormat.
func (f *LogFormat) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "json", "text":
		*f = LogFormat(v)
		return nil
	default:
		return fmt.Errorf("invalid LogFormat: %q (valid options: json, text)", v)
	}
}

// ObservabilityConfig groups configuration that controls logging and metrics.
type ObservabilityConfig struct {
	Logging ObservabilityLoggingConfig
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize(isDev bool) {
	c.Logging.Sanitize(isDev)
	c.Metrics.Sanitize()
}

// ObservabilityLoggingConfig controls the process logger.
type ObservabilityLoggingConfig struct {
	Level  string    `env:"LOG_LEVEL"  envDefault:"warn"`
	Format LogFormat `env:"LOG_FORMAT" envDefault:"json"`
}

// Sanitize normalises the level and switches dev mode to readable text logs.
func (c *ObservabilityLoggingConfig) Sanitize(isDev bool) {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	switch c.Level {
	case "debug", "info", "warn", "error":
	case "warning":
		c.Level = "warn"
	default:
		c.Level = "warn"
	}
	if c.Format == "" {
		c.Format = LogFormatJSON
	}
	if isDev {
		c.Format = LogFormatText
		c.Level = "debug"
	}
}

// ObservabilityMetricsConfig controls emission of metrics to external sinks such as StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool              `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string            `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string            `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"stockdesk"`
	Tags          map[string]string `env:"OBSERVABILITY_METRICS_TAGS"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultObservabilityName
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}
