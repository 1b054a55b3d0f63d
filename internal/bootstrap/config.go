package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/stockdesk/console/config"
)

// InitLogger initializes the structured logger and installs it as the default.
// Logs go to w so command output on stdout stays machine readable.
func InitLogger(cfg config.ObservabilityLoggingConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == config.LogFormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// LoadConfig loads configuration from environment variables.
// Files are loaded with godotenv first; missing files are ignored and
// variables already present in the environment win.
func LoadConfig(envFiles ...string) (config.AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			var pathErr *os.PathError
			if !errors.As(err, &pathErr) {
				return config.AppConfig{}, fmt.Errorf("load %s file: %w", f, err)
			}
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
