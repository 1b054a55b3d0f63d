package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication backend for the console.
type AuthMode string

const (
	// AuthModeRuoYi authenticates against the console server's own login endpoints.
	AuthModeRuoYi AuthMode = "ruoyi"
	// AuthModeOIDC uses an OpenID Connect provider with the password grant.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "ruoyi", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: ruoyi, oidc, mock)", v)
	}
}

// OIDCConfig contains OAuth/OIDC configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"stockdesk"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// AdminGroup and UserGroup map identity provider groups to console roles.
	AdminGroup string `env:"ADMIN_GROUP"`
	UserGroup  string `env:"USER_GROUP"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string   `env:"USER_ID"      envDefault:"1"`
	UserName    string   `env:"USER_NAME"    envDefault:"admin"`
	Password    string   `env:"PASSWORD"`
	Avatar      string   `env:"AVATAR"`
	Roles       []string `env:"ROLES"        envDefault:"admin"   envSeparator:";"`
	Permissions []string `env:"PERMISSIONS"  envDefault:"*:*:*"   envSeparator:";"`
	CaptchaCode string   `env:"CAPTCHA_CODE"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication service to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"ruoyi"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims free-form auth values.
func (a *AuthConfig) Sanitize() {
	a.OIDC.DiscoveryURL = strings.TrimSpace(a.OIDC.DiscoveryURL)
	a.OIDC.Scope = strings.Join(strings.Fields(a.OIDC.Scope), " ")
	a.DevAuth.Roles = trimAll(a.DevAuth.Roles)
	a.DevAuth.Permissions = trimAll(a.DevAuth.Permissions)
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
