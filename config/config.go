package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: API transport configuration
//   - auth.go: Authentication configuration
//   - session.go: Identity session policies
//   - storage.go: Cache storage mediums and Redis
//   - observability.go: Logging and metrics
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, debug level).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	API     APIConfig
	Auth    AuthConfig
	Session SessionConfig
	Storage StorageConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.API.Sanitize()
	c.Auth.Sanitize()
	c.Session.Sanitize()
	c.Storage.Sanitize()
	c.Observability.Sanitize(c.IsDev)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// NeedsRedis reports whether any enabled component uses Redis.
func (c *AppConfig) NeedsRedis() bool {
	return c.Storage.PersistentBackend == StorageBackendRedis
}
