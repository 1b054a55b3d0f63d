package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stockdesk/console/config"
	"github.com/stockdesk/console/internal/adapters/devauth"
	"github.com/stockdesk/console/internal/adapters/ruoyi"
	"github.com/stockdesk/console/internal/apiclient"
	domainauth "github.com/stockdesk/console/internal/domain/auth"
)

type staticTokens domainauth.Token

func (s staticTokens) Restore(context.Context) (domainauth.Token, error) {
	return domainauth.Token(s), nil
}

func TestBuildAuthService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api, err := apiclient.New(apiclient.Options{BaseURL: "http://localhost:9099/dev-api", Logger: logger})
	if err != nil {
		t.Fatalf("apiclient.New() error = %v", err)
	}

	t.Run("ruoyi mode", func(t *testing.T) {
		bundle, err := BuildAuthService(context.Background(), AuthDeps{
			Auth:   config.AuthConfig{Mode: config.AuthModeRuoYi},
			API:    api,
			Logger: logger,
		})
		if err != nil {
			t.Fatalf("BuildAuthService() error = %v", err)
		}
		if _, ok := bundle.Service.(*ruoyi.Service); !ok {
			t.Fatalf("Service = %T, want *ruoyi.Service", bundle.Service)
		}
		if bundle.Captcha == nil {
			t.Fatal("Captcha = nil, want ruoyi captcha provider")
		}
	})

	t.Run("ruoyi mode without api client", func(t *testing.T) {
		if _, err := BuildAuthService(context.Background(), AuthDeps{Auth: config.AuthConfig{Mode: config.AuthModeRuoYi}}); err == nil {
			t.Fatal("BuildAuthService() error = nil, want error")
		}
	})

	t.Run("mock mode", func(t *testing.T) {
		bundle, err := BuildAuthService(context.Background(), AuthDeps{
			Auth: config.AuthConfig{
				Mode: config.AuthModeMock,
				DevAuth: config.DevAuthConfig{
					UserID:   "1",
					UserName: "admin",
					Roles:    []string{"admin"},
				},
			},
			Tokens: staticTokens(""),
			Logger: logger,
		})
		if err != nil {
			t.Fatalf("BuildAuthService() error = %v", err)
		}
		if _, ok := bundle.Service.(*devauth.Provider); !ok {
			t.Fatalf("Service = %T, want *devauth.Provider", bundle.Service)
		}
	})

	t.Run("mock mode missing user", func(t *testing.T) {
		_, err := BuildAuthService(context.Background(), AuthDeps{
			Auth:   config.AuthConfig{Mode: config.AuthModeMock},
			Logger: logger,
		})
		if err == nil {
			t.Fatal("BuildAuthService() error = nil, want error")
		}
	})

	t.Run("oidc mode missing discovery", func(t *testing.T) {
		_, err := BuildAuthService(context.Background(), AuthDeps{
			Auth:   config.AuthConfig{Mode: config.AuthModeOIDC, OIDC: config.OIDCConfig{ClientID: "desk"}},
			Logger: logger,
		})
		if err == nil {
			t.Fatal("BuildAuthService() error = nil, want error")
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		if _, err := BuildAuthService(context.Background(), AuthDeps{Auth: config.AuthConfig{Mode: "saml"}}); err == nil {
			t.Fatal("BuildAuthService() error = nil, want error")
		}
	})
}

func TestNoCaptcha(t *testing.T) {
	c, err := noCaptcha{}.Captcha(context.Background())
	if err != nil || c.Enabled {
		t.Fatalf("Captcha() = %+v, %v; want disabled", c, err)
	}
}
