package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/stockdesk/console/config"
	"github.com/stockdesk/console/internal/apiclient"
	"github.com/stockdesk/console/internal/core"
	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/observability/statsd"
	"github.com/stockdesk/console/internal/ports"
	"github.com/stockdesk/console/internal/service"
	"github.com/stockdesk/console/internal/stockapi"
)

// App is the wired console client.
type App struct {
	Config  config.AppConfig
	Logger  *slog.Logger
	Cache   *core.ScopedCache
	Tokens  *core.TokenStore
	Session *service.IdentitySession
	API     *apiclient.Client
	Stocks  *stockapi.Client
	Auth    ports.AuthService
	Captcha ports.CaptchaProvider
	Metrics *statsd.Client
	// Redis is nil unless a scope uses the redis backend.
	Redis redis.UniversalClient
}

// BuildApp connects storage, restores the session and wires the API wrappers.
func BuildApp(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{Config: cfg, Logger: logger}
	app.Metrics = BuildMetrics(cfg.Observability.Metrics, logger)

	if cfg.NeedsRedis() {
		client, err := ConnectRedis(ctx, RedisDeps{Redis: cfg.Redis, Logger: logger})
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.Redis = client
	}

	cache, err := BuildScopedCache(StorageDeps{Storage: cfg.Storage, RedisClient: app.Redis, Logger: logger})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("build scoped cache: %w", err)
	}
	app.Cache = cache
	app.Tokens = core.NewTokenStore(cache, cfg.Session.TokenKey)

	tokens := &deferredTokens{store: app.Tokens}
	api, err := apiclient.New(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Tokens:    apiclient.NewTokenSource(tokens),
		Logger:    logger,
		Metrics:   app.Metrics,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}
	app.API = api
	app.Stocks = stockapi.New(api, logger)

	bundle, err := BuildAuthService(ctx, AuthDeps{Auth: cfg.Auth, API: api, Tokens: tokens, Logger: logger})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Auth = bundle.Service
	app.Captcha = bundle.Captcha

	session, err := service.NewIdentitySession(ctx, service.IdentitySessionOptions{
		Auth:   bundle.Service,
		Tokens: app.Tokens,
		Config: service.SessionConfig{
			BaseAPIURL:       cfg.API.AvatarBaseURL,
			DefaultAvatar:    cfg.API.DefaultAvatar,
			LogoutPolicy:     cfg.Session.LogoutPolicy,
			EmptyRolesPolicy: cfg.Session.EmptyRolesPolicy,
		},
		Logger:  logger,
		Metrics: app.Metrics,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("create identity session: %w", err)
	}
	tokens.session.Store(session)
	app.Session = session

	return app, nil
}

// Close releases the metrics socket and the Redis client.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Metrics != nil {
		if err := a.Metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close metrics: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// deferredTokens yields the live session token once the session exists and
// the persisted token before that. The API client and auth adapters are
// created ahead of the session, so they read the token through it.
type deferredTokens struct {
	store   *core.TokenStore
	session atomic.Pointer[service.IdentitySession]
}

func (d *deferredTokens) Restore(ctx context.Context) (domainauth.Token, error) {
	if s := d.session.Load(); s != nil {
		return s.Token(), nil
	}
	return d.store.Restore(ctx)
}
