// Package ruoyi implements the authentication service against the console
// server's own /login, /getInfo, /logout and /captchaImage endpoints.
package ruoyi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stockdesk/console/internal/apiclient"
	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/ports"
)

// Endpoint paths relative to the API base URL.
const (
	PathLogin   = "/login"
	PathGetInfo = "/getInfo"
	PathLogout  = "/logout"
	PathCaptcha = "/captchaImage"
)

var (
	_ ports.AuthService     = (*Service)(nil)
	_ ports.CaptchaProvider = (*Service)(nil)
)

// Doer is the subset of *apiclient.Client used here.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}

// Service talks to the server's session endpoints.
type Service struct {
	api    Doer
	logger *slog.Logger
}

// New creates a Service over api.
func New(api Doer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger.With("component", "ruoyi_auth")}
}

// Login posts the four login fields. A server-side refusal (bad password,
// wrong or expired captcha) is reported as an auth_rejected error.
func (s *Service) Login(ctx context.Context, in domainauth.LoginInput) (domainauth.Token, error) {
	resp, err := s.api.Do(ctx, apiclient.Request{
		Method:    http.MethodPost,
		Path:      PathLogin,
		Data:      in,
		Anonymous: true,
	})
	if err != nil {
		if errors.IsRemote(err) || errors.IsUnauthenticated(err) {
			e := errors.Wrap(err, errors.ErrCodeAuthRejected, "login rejected")
			e.Status = errors.GetStatus(err)
			return "", e
		}
		return "", err
	}

	var token string
	if _, err := resp.DecodeField("token", &token); err != nil {
		return "", err
	}
	return domainauth.Token(token), nil
}

// GetInfo fetches the profile bound to the current token.
func (s *Service) GetInfo(ctx context.Context) (domainauth.UserInfo, error) {
	resp, err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: PathGetInfo})
	if err != nil {
		return domainauth.UserInfo{}, err
	}
	var info domainauth.UserInfo
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &info); err != nil {
			return domainauth.UserInfo{}, errors.Wrap(err, errors.ErrCodeDeserialization, "decode user info")
		}
	}
	return info, nil
}

// Logout invalidates token on the server. The token is sent explicitly rather
// than read back from storage.
func (s *Service) Logout(ctx context.Context, token domainauth.Token) error {
	req := apiclient.Request{Method: http.MethodPost, Path: PathLogout, Anonymous: true}
	if !token.IsEmpty() {
		req.Headers = map[string]string{"Authorization": "Bearer " + string(token)}
	}
	_, err := s.api.Do(ctx, req)
	return err
}

// Captcha fetches a verification challenge. Servers that omit captchaEnabled
// are treated as having captcha turned on.
func (s *Service) Captcha(ctx context.Context) (domainauth.Captcha, error) {
	resp, err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: PathCaptcha, Anonymous: true})
	if err != nil {
		return domainauth.Captcha{}, err
	}
	c := domainauth.Captcha{Enabled: true}
	if _, err := resp.DecodeField("captchaEnabled", &c.Enabled); err != nil {
		return domainauth.Captcha{}, err
	}
	if _, err := resp.DecodeField("uuid", &c.UUID); err != nil {
		return domainauth.Captcha{}, err
	}
	if _, err := resp.DecodeField("img", &c.Image); err != nil {
		return domainauth.Captcha{}, err
	}
	s.logger.DebugContext(ctx, "captcha issued", "enabled", c.Enabled, "uuid", c.UUID)
	return c, nil
}
