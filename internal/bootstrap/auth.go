package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stockdesk/console/config"
	"github.com/stockdesk/console/internal/adapters/authroles"
	"github.com/stockdesk/console/internal/adapters/devauth"
	"github.com/stockdesk/console/internal/adapters/oidc"
	"github.com/stockdesk/console/internal/adapters/ruoyi"
	"github.com/stockdesk/console/internal/apiclient"
	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/ports"
)

// AuthDeps contains what BuildAuthService needs.
type AuthDeps struct {
	Auth config.AuthConfig
	// API is the console API client used by the ruoyi mode.
	API *apiclient.Client
	// Tokens yields the current session token for providers that read it themselves.
	Tokens apiclient.TokenRestorer
	Logger *slog.Logger
}

// AuthBundle is the authentication service plus its optional captcha source.
type AuthBundle struct {
	Service ports.AuthService
	// Captcha is nil when the mode has no captcha challenge.
	Captcha ports.CaptchaProvider
}

// BuildAuthService creates the authentication service for the configured mode.
func BuildAuthService(ctx context.Context, deps AuthDeps) (AuthBundle, error) {
	switch deps.Auth.Mode {
	case config.AuthModeRuoYi, "":
		if deps.API == nil {
			return AuthBundle{}, errors.New("ruoyi auth requires an API client")
		}
		svc := ruoyi.New(deps.API, deps.Logger)
		return AuthBundle{Service: svc, Captcha: svc}, nil

	case config.AuthModeMock:
		return buildDevAuthService(deps)

	case config.AuthModeOIDC:
		return buildOIDCService(ctx, deps)

	default:
		return AuthBundle{}, fmt.Errorf("unsupported auth mode %q", deps.Auth.Mode)
	}
}

func buildDevAuthService(deps AuthDeps) (AuthBundle, error) {
	dev := deps.Auth.DevAuth
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:      dev.UserID,
		UserName:    dev.UserName,
		Password:    dev.Password,
		Avatar:      dev.Avatar,
		Roles:       dev.Roles,
		Permissions: dev.Permissions,
		CaptchaCode: dev.CaptchaCode,
		Tokens:      deps.Tokens,
	})
	if err != nil {
		return AuthBundle{}, fmt.Errorf("create dev auth provider: %w", err)
	}
	if deps.Logger != nil {
		deps.Logger.Warn("dev auth mode enabled; do not use in production", "user", dev.UserName)
	}
	return AuthBundle{Service: prov, Captcha: prov}, nil
}

func buildOIDCService(ctx context.Context, deps AuthDeps) (AuthBundle, error) {
	o := deps.Auth.OIDC
	if o.DiscoveryURL == "" || o.ClientID == "" {
		return AuthBundle{}, fmt.Errorf("oidc auth requires OIDC_DISCOVERY_URL and OIDC_CLIENT_ID (discovery_url_empty=%t client_id_empty=%t)",
			o.DiscoveryURL == "", o.ClientID == "")
	}

	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		Scope:        o.Scope,
		DiscoveryURL: o.DiscoveryURL,
		Tokens:       deps.Tokens,
		Roles: authroles.StaticRoleMapper{
			AdminGroup: o.AdminGroup,
			UserGroup:  o.UserGroup,
		},
	})
	if err != nil {
		return AuthBundle{}, fmt.Errorf("create oidc provider: %w", err)
	}
	return AuthBundle{Service: prov, Captcha: noCaptcha{}}, nil
}

// noCaptcha reports the captcha challenge as disabled.
type noCaptcha struct{}

func (noCaptcha) Captcha(context.Context) (domainauth.Captcha, error) {
	return domainauth.Captcha{Enabled: false}, nil
}
