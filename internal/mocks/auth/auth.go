package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthService     = (*MockAuthService)(nil)
	_ ports.CaptchaProvider = (*MockAuthService)(nil)
	_ ports.RoleMapper      = (*StaticRoleMapper)(nil)
)

// MockAuthService simulates the remote authentication service with deterministic tokens.
type MockAuthService struct {
	LoginFunc   func(ctx context.Context, in domainauth.LoginInput) (domainauth.Token, error)
	GetInfoFunc func(ctx context.Context) (domainauth.UserInfo, error)
	LogoutFunc  func(ctx context.Context, token domainauth.Token) error

	// Deterministic values for predictable testing
	TokenPrefix string
	DefaultInfo domainauth.UserInfo

	mu         sync.Mutex
	logins     []domainauth.LoginInput
	logouts    []domainauth.Token
	infoCalls  int
	tokenCount int
}

// NewMockAuthService creates a MockAuthService with sensible defaults.
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		TokenPrefix: "token",
		DefaultInfo: domainauth.UserInfo{
			User:        domainauth.User{UserID: "1", UserName: "mock", Avatar: ""},
			Roles:       []string{"common"},
			Permissions: []string{"system:show:list"},
		},
	}
}

func (m *MockAuthService) Login(ctx context.Context, in domainauth.LoginInput) (domainauth.Token, error) {
	m.mu.Lock()
	m.logins = append(m.logins, in)
	m.tokenCount++
	n := m.tokenCount
	m.mu.Unlock()

	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, in)
	}
	prefix := m.TokenPrefix
	if prefix == "" {
		prefix = "token"
	}
	return domainauth.Token(fmt.Sprintf("%s-%d", prefix, n)), nil
}

func (m *MockAuthService) GetInfo(ctx context.Context) (domainauth.UserInfo, error) {
	m.mu.Lock()
	m.infoCalls++
	m.mu.Unlock()

	if m.GetInfoFunc != nil {
		return m.GetInfoFunc(ctx)
	}
	return m.DefaultInfo, nil
}

func (m *MockAuthService) Logout(ctx context.Context, token domainauth.Token) error {
	m.mu.Lock()
	m.logouts = append(m.logouts, token)
	m.mu.Unlock()

	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

// Captcha returns a disabled challenge.
func (m *MockAuthService) Captcha(_ context.Context) (domainauth.Captcha, error) {
	return domainauth.Captcha{Enabled: false}, nil
}

// Logins returns a copy of every login input received.
func (m *MockAuthService) Logins() []domainauth.LoginInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domainauth.LoginInput(nil), m.logins...)
}

// Logouts returns a copy of every token passed to Logout.
func (m *MockAuthService) Logouts() []domainauth.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domainauth.Token(nil), m.logouts...)
}

// InfoCalls returns how many times GetInfo was called.
func (m *MockAuthService) InfoCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.infoCalls
}

// StaticRoleMapper maps groups by simple string membership rules.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) []string {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return []string{domainauth.SuperAdminRole}
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return []string{"common"}
		}
	}
	return nil
}
