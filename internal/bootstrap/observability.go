package bootstrap

import (
	"log/slog"

	"github.com/stockdesk/console/config"
	"github.com/stockdesk/console/internal/observability/statsd"
)

// BuildMetrics creates the statsd client. A dial failure is logged and
// metrics are disabled rather than failing startup.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.IsEnabled(),
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		Logger:     logger,
		GlobalTags: cfg.Tags,
	})
	if err != nil {
		logger.Warn("statsd client unavailable, metrics disabled", "address", cfg.StatsdAddress, "error", err)
		client, _ = statsd.NewClient(statsd.Config{Prefix: cfg.Prefix, Logger: logger})
		return client
	}
	if client.Enabled() {
		logger.Debug("statsd metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return client
}
