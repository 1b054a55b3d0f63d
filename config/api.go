package config

import (
	"strings"
	"time"
)

// APIConfig contains the console API transport configuration.
type APIConfig struct {
	// BaseURL is the absolute API root every request path is joined to.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:9099/dev-api"`

	// Timeout is the default per-request timeout.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// AvatarBaseURL prefixes relative avatar paths. Defaults to BaseURL.
	AvatarBaseURL string `env:"API_AVATAR_BASE_URL"`

	// DefaultAvatar replaces an empty avatar in identity responses.
	DefaultAvatar string `env:"API_DEFAULT_AVATAR" envDefault:"assets/images/profile.jpg"`

	// UserAgent is sent on every request.
	UserAgent string `env:"API_USER_AGENT" envDefault:"stockdesk-console"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Second
	}
	a.AvatarBaseURL = strings.TrimRight(strings.TrimSpace(a.AvatarBaseURL), "/")
	if a.AvatarBaseURL == "" {
		a.AvatarBaseURL = a.BaseURL
	}
}
