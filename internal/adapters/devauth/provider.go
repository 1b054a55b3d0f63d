// Package devauth provides a simple, config-driven AuthService for local development.
package devauth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
	apperrors "github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/ports"
)

// captchaPNG is a 1x1 transparent PNG returned as the dev captcha image.
var captchaPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// TokenRestorer yields the bearer token of the current session.
type TokenRestorer interface {
	Restore(ctx context.Context) (domainauth.Token, error)
}

// Config controls the dev auth service behavior.
// UserID and UserName are required. An empty Password accepts any password.
// A non-empty CaptchaCode turns the captcha challenge on.
type Config struct {
	UserID      string
	UserName    string
	Password    string
	Avatar      string
	Roles       []string
	Permissions []string
	CaptchaCode string
	Tokens      TokenRestorer
}

// Provider implements ports.AuthService and ports.CaptchaProvider without a backend.
// Tokens are random UUIDs kept in memory until Logout.
type Provider struct {
	cfg Config

	mu       sync.Mutex
	issued   map[domainauth.Token]struct{}
	captchas map[string]struct{}
}

var (
	_ ports.AuthService     = (*Provider)(nil)
	_ ports.CaptchaProvider = (*Provider)(nil)
)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.UserName == "" {
		return nil, errors.New("dev auth: UserName is required")
	}
	cfg.Roles = append([]string(nil), cfg.Roles...)
	cfg.Permissions = append([]string(nil), cfg.Permissions...)
	return &Provider{
		cfg:      cfg,
		issued:   make(map[domainauth.Token]struct{}),
		captchas: make(map[string]struct{}),
	}, nil
}

// Login checks the configured credentials and issues a fresh token.
func (p *Provider) Login(_ context.Context, in domainauth.LoginInput) (domainauth.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cfg.CaptchaCode != "" {
		if _, ok := p.captchas[in.UUID]; !ok {
			return "", apperrors.AuthRejected("captcha expired")
		}
		delete(p.captchas, in.UUID)
		if !strings.EqualFold(in.Code, p.cfg.CaptchaCode) {
			return "", apperrors.AuthRejected("captcha mismatch")
		}
	}
	if in.Username != p.cfg.UserName {
		return "", apperrors.AuthRejected("user does not exist or wrong password")
	}
	if p.cfg.Password != "" && in.Password != p.cfg.Password {
		return "", apperrors.AuthRejected("user does not exist or wrong password")
	}

	tok := domainauth.Token(uuid.NewString())
	p.issued[tok] = struct{}{}
	return tok, nil
}

// GetInfo returns the configured user. With Tokens set, the current token
// must have been issued by this provider.
func (p *Provider) GetInfo(ctx context.Context) (domainauth.UserInfo, error) {
	if p.cfg.Tokens != nil {
		tok, err := p.cfg.Tokens.Restore(ctx)
		if err != nil {
			return domainauth.UserInfo{}, err
		}
		if !p.Valid(tok) {
			return domainauth.UserInfo{}, apperrors.Unauthenticated("session expired")
		}
	}
	var roles []string
	if p.cfg.Roles != nil {
		roles = append([]string{}, p.cfg.Roles...)
	}
	return domainauth.UserInfo{
		User: domainauth.User{
			UserID:   domainauth.UserID(p.cfg.UserID),
			UserName: p.cfg.UserName,
			NickName: p.cfg.UserName,
			Avatar:   p.cfg.Avatar,
		},
		Roles:       roles,
		Permissions: append([]string(nil), p.cfg.Permissions...),
	}, nil
}

// Logout forgets token. Unknown tokens are accepted.
func (p *Provider) Logout(_ context.Context, token domainauth.Token) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.issued, token)
	return nil
}

// Valid reports whether token is currently issued.
func (p *Provider) Valid(token domainauth.Token) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.issued[token]
	return ok
}

// Captcha issues a challenge when CaptchaCode is configured.
func (p *Provider) Captcha(_ context.Context) (domainauth.Captcha, error) {
	if p.cfg.CaptchaCode == "" {
		return domainauth.Captcha{Enabled: false}, nil
	}
	id := uuid.NewString()
	p.mu.Lock()
	p.captchas[id] = struct{}{}
	p.mu.Unlock()
	return domainauth.Captcha{
		Enabled: true,
		UUID:    id,
		Image:   base64.StdEncoding.EncodeToString(captchaPNG),
	}, nil
}
