package ports

// Package ports defines interfaces (hexagonal ports) for auth and storage behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
)

// AuthService is the remote authentication collaborator used by the identity session.
// Implementations forward failures as *errors.AppError values and never retry.
type AuthService interface {
	// Login exchanges credentials and a verification answer for a bearer token.
	Login(ctx context.Context, in domainauth.LoginInput) (domainauth.Token, error)

	// GetInfo returns the profile, roles and permissions bound to the current token.
	GetInfo(ctx context.Context) (domainauth.UserInfo, error)

	// Logout invalidates token on the server.
	Logout(ctx context.Context, token domainauth.Token) error
}

// CaptchaProvider issues verification challenges ahead of login.
type CaptchaProvider interface {
	Captcha(ctx context.Context) (domainauth.Captcha, error)
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) []string
}
