package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/observability/metrics"
	"github.com/stockdesk/console/internal/observability/statsd"
	"github.com/stockdesk/console/internal/ports"
)

// DefaultAvatar is substituted when the identity response carries no avatar.
const DefaultAvatar = "assets/images/profile.jpg"

// TokenStore persists the bearer token across processes.
type TokenStore interface {
	Restore(ctx context.Context) (domainauth.Token, error)
	Persist(ctx context.Context, token domainauth.Token) error
	Clear(ctx context.Context) error
}

// SessionConfig tunes identity normalisation and failure policies.
type SessionConfig struct {
	// BaseAPIURL prefixes relative avatar paths.
	BaseAPIURL string
	// DefaultAvatar replaces an empty avatar. Defaults to DefaultAvatar.
	DefaultAvatar    string
	LogoutPolicy     domainauth.LogoutPolicy
	EmptyRolesPolicy domainauth.EmptyRolesPolicy
}

// IdentitySessionOptions groups dependencies for IdentitySession.
type IdentitySessionOptions struct {
	Auth    ports.AuthService
	Tokens  TokenStore
	Config  SessionConfig
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// IdentitySession owns the bearer token and the identity derived from it.
// Callers serialise Login, FetchIdentity and Logout themselves; the mutex only
// keeps field access memory safe.
type IdentitySession struct {
	auth    ports.AuthService
	tokens  TokenStore
	cfg     SessionConfig
	logger  *slog.Logger
	metrics statsd.Sink

	mu       sync.RWMutex
	state    domainauth.State
	token    domainauth.Token
	identity domainauth.Identity
}

// NewIdentitySession constructs a session and restores the persisted token.
// A restore failure is logged and the session starts anonymous.
func NewIdentitySession(ctx context.Context, opts IdentitySessionOptions) (*IdentitySession, error) {
	if opts.Auth == nil {
		return nil, stderrors.New("Auth is required")
	}
	if opts.Tokens == nil {
		return nil, stderrors.New("Tokens is required")
	}

	cfg := opts.Config
	if cfg.DefaultAvatar == "" {
		cfg.DefaultAvatar = DefaultAvatar
	}
	if cfg.LogoutPolicy == "" {
		cfg.LogoutPolicy = domainauth.LogoutRemoteFirst
	}
	if cfg.EmptyRolesPolicy == "" {
		cfg.EmptyRolesPolicy = domainauth.EmptyRolesKeepPermissions
	}
	if !cfg.LogoutPolicy.Valid() {
		return nil, errors.ValidationField("logout_policy", "unknown logout policy "+cfg.LogoutPolicy.String())
	}
	if !cfg.EmptyRolesPolicy.Valid() {
		return nil, errors.ValidationField("empty_roles_policy", "unknown empty roles policy "+cfg.EmptyRolesPolicy.String())
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &IdentitySession{
		auth:    opts.Auth,
		tokens:  opts.Tokens,
		cfg:     cfg,
		logger:  logger.With("component", "identity_session"),
		metrics: opts.Metrics,
		state:   domainauth.StateAnonymous,
	}

	tok, err := s.tokens.Restore(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "token restore failed, starting anonymous", "error", err)
		tok = ""
	}
	if !tok.IsEmpty() {
		s.token = tok
		s.state = domainauth.StateAuthenticated
	}
	return s, nil
}

// Login authenticates with the trimmed username and persists the issued token.
// Errors from the authentication service are returned unchanged.
func (s *IdentitySession) Login(ctx context.Context, in domainauth.LoginInput) error {
	start := time.Now()
	in.Username = strings.TrimSpace(in.Username)

	prev := s.enter(domainauth.StateAuthenticating)

	tok, err := s.auth.Login(ctx, in)
	if err == nil && tok.IsEmpty() {
		err = errors.AuthRejected("login response carried no token")
	}
	if err == nil {
		err = s.tokens.Persist(ctx, tok)
	}
	if err != nil {
		s.revert(prev)
		s.observe(ctx, "login", prev, prev, start, err)
		return err
	}

	s.mu.Lock()
	s.token = tok
	s.state = domainauth.StateAuthenticated
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "login succeeded", "username", in.Username)
	s.observe(ctx, "login", prev, domainauth.StateAuthenticated, start, nil)
	return nil
}

// FetchIdentity resolves the identity for the current token and returns the raw response.
func (s *IdentitySession) FetchIdentity(ctx context.Context) (domainauth.UserInfo, error) {
	start := time.Now()

	s.mu.Lock()
	if s.token.IsEmpty() {
		s.mu.Unlock()
		return domainauth.UserInfo{}, errors.Unauthenticated("no session token")
	}
	prev := s.state
	s.state = domainauth.StateIdentifying
	s.mu.Unlock()

	info, err := s.auth.GetInfo(ctx)
	if err != nil {
		s.revert(prev)
		s.observe(ctx, "fetch_identity", prev, prev, start, err)
		return domainauth.UserInfo{}, err
	}

	s.mu.Lock()
	s.identity.ID = info.User.UserID
	s.identity.DisplayName = info.User.UserName
	s.identity.AvatarURL = s.normalizeAvatar(info.User.Avatar)
	if len(info.Roles) > 0 {
		s.identity.Roles = slices.Clone(info.Roles)
		s.identity.Permissions = slices.Clone(info.Permissions)
	} else {
		s.identity.Roles = []string{domainauth.RoleDefault}
		if s.cfg.EmptyRolesPolicy == domainauth.EmptyRolesClearPermissions {
			s.identity.Permissions = nil
		}
	}
	s.state = domainauth.StateIdentified
	s.mu.Unlock()

	s.observe(ctx, "fetch_identity", prev, domainauth.StateIdentified, start, nil)
	return info, nil
}

// Logout ends the remote session and then the local one. When the remote call
// fails, LogoutRemoteFirst keeps local state and LogoutAlwaysClear drops it;
// the remote error is returned in both cases.
func (s *IdentitySession) Logout(ctx context.Context) error {
	start := time.Now()

	s.mu.RLock()
	tok, prev := s.token, s.state
	s.mu.RUnlock()

	remoteErr := s.auth.Logout(ctx, tok)
	if remoteErr != nil && s.cfg.LogoutPolicy == domainauth.LogoutRemoteFirst {
		s.observe(ctx, "logout", prev, prev, start, remoteErr)
		return remoteErr
	}

	clearErr := s.tokens.Clear(ctx)
	s.mu.Lock()
	s.token = ""
	s.identity = domainauth.Identity{}
	s.state = domainauth.StateAnonymous
	s.mu.Unlock()

	if clearErr != nil {
		s.logger.WarnContext(ctx, "persisted token not removed", "error", clearErr)
	}
	if remoteErr != nil {
		s.logger.WarnContext(ctx, "remote logout failed, local session cleared", "error", remoteErr)
	}

	err := remoteErr
	if clearErr != nil {
		err = stderrors.Join(remoteErr, clearErr)
	}
	s.observe(ctx, "logout", prev, domainauth.StateAnonymous, start, err)
	return err
}

// State returns the current lifecycle phase.
func (s *IdentitySession) State() domainauth.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the in-memory bearer token.
func (s *IdentitySession) Token() domainauth.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Restore returns the in-memory token so the session can back an API client.
func (s *IdentitySession) Restore(context.Context) (domainauth.Token, error) {
	return s.Token(), nil
}

// Identity returns a snapshot of the resolved identity.
func (s *IdentitySession) Identity() domainauth.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// HasRole reports whether the session holds role.
func (s *IdentitySession) HasRole(role string) bool {
	return s.Identity().HasRole(role)
}

// HasAnyRole reports whether the session holds at least one of roles.
func (s *IdentitySession) HasAnyRole(roles ...string) bool {
	id := s.Identity()
	return slices.ContainsFunc(roles, id.HasRole)
}

// HasPermission reports whether the session holds perm.
func (s *IdentitySession) HasPermission(perm string) bool {
	return s.Identity().HasPermission(perm)
}

// HasAnyPermission reports whether the session holds at least one of perms.
func (s *IdentitySession) HasAnyPermission(perms ...string) bool {
	id := s.Identity()
	return slices.ContainsFunc(perms, id.HasPermission)
}

// HasAllPermissions reports whether the session holds every one of perms.
// An empty list is never satisfied.
func (s *IdentitySession) HasAllPermissions(perms ...string) bool {
	if len(perms) == 0 {
		return false
	}
	id := s.Identity()
	for _, p := range perms {
		if !id.HasPermission(p) {
			return false
		}
	}
	return true
}

func (s *IdentitySession) normalizeAvatar(avatar string) string {
	switch {
	case avatar == "":
		return s.cfg.DefaultAvatar
	case isHTTPURL(avatar):
		return avatar
	default:
		return s.cfg.BaseAPIURL + avatar
	}
}

// isHTTPURL reports whether v mentions an http(s) URL anywhere, so proxied
// avatar links are not prefixed with the API base.
func isHTTPURL(v string) bool {
	lower := strings.ToLower(v)
	return strings.Contains(lower, "http://") || strings.Contains(lower, "https://")
}

// enter moves to a transient state and returns the state it left.
func (s *IdentitySession) enter(next domainauth.State) domainauth.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = next
	return prev
}

func (s *IdentitySession) revert(prev domainauth.State) {
	s.mu.Lock()
	s.state = prev
	s.mu.Unlock()
}

func (s *IdentitySession) observe(ctx context.Context, op string, from, to domainauth.State, start time.Time, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		s.logger.DebugContext(ctx, "session operation failed", "operation", op, "state", to, "error", err)
	}
	metrics.EmitSessionTransition(s.metrics, metrics.SessionMetric{
		Operation: op,
		From:      string(from),
		To:        string(to),
		Result:    result,
		Duration:  time.Since(start),
		Err:       err,
	})
}
