package config

import (
	"strings"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
)

// SessionConfig controls the identity session.
type SessionConfig struct {
	// TokenKey is the persistent cache key holding the bearer token.
	TokenKey string `env:"SESSION_TOKEN_KEY" envDefault:"Admin-Token"`

	// LogoutPolicy decides whether a failed remote logout still clears local state.
	LogoutPolicy domainauth.LogoutPolicy `env:"SESSION_LOGOUT_POLICY" envDefault:"remote-first"`

	// EmptyRolesPolicy decides whether an empty-roles identity also clears permissions.
	EmptyRolesPolicy domainauth.EmptyRolesPolicy `env:"SESSION_EMPTY_ROLES_POLICY" envDefault:"keep-permissions"`
}

// Sanitize restores defaults for blank values.
func (s *SessionConfig) Sanitize() {
	s.TokenKey = strings.TrimSpace(s.TokenKey)
	if s.TokenKey == "" {
		s.TokenKey = "Admin-Token"
	}
	if !s.LogoutPolicy.Valid() {
		s.LogoutPolicy = domainauth.LogoutRemoteFirst
	}
	if !s.EmptyRolesPolicy.Valid() {
		s.EmptyRolesPolicy = domainauth.EmptyRolesKeepPermissions
	}
}
