package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/console/internal/adapters/authroles"
	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/ports"
)

type staticTokens struct {
	tok domainauth.Token
	err error
}

func (s staticTokens) Restore(context.Context) (domainauth.Token, error) { return s.tok, s.err }

type fakeIdP struct {
	srv *httptest.Server

	mu        sync.Mutex
	revoked   []string
	revokeSt  int
	noRevoke  bool
	userinfo  map[string]any
	userSt    int
	grantUser string
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()
	f := &fakeIdP{revokeSt: http.StatusOK, userSt: http.StatusOK, grantUser: "alice"}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		noRevoke := f.noRevoke
		f.mu.Unlock()
		doc := map[string]any{
			"issuer":                 f.srv.URL,
			"authorization_endpoint": f.srv.URL + "/auth",
			"token_endpoint":         f.srv.URL + "/token",
			"userinfo_endpoint":      f.srv.URL + "/userinfo",
			"jwks_uri":               f.srv.URL + "/jwks",
		}
		if !noRevoke {
			doc["revocation_endpoint"] = f.srv.URL + "/revoke"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("grant_type") != "password" ||
			r.PostForm.Get("username") != f.grantUser || r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status, body := f.userSt, f.userinfo
		f.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer at-123" {
			status = http.StatusUnauthorized
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("denied"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		defer f.mu.Unlock()
		f.revoked = append(f.revoked, r.PostForm.Get("token"))
		w.WriteHeader(f.revokeSt)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeIdP) set(fn func(f *fakeIdP)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeIdP) revokedTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.revoked...)
}

func newTestProvider(t *testing.T, f *fakeIdP, tokens TokenRestorer) *Provider {
	t.Helper()
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "console",
		ClientSecret: "secret",
		Scope:        "profile groups",
		DiscoveryURL: f.srv.URL + "/.well-known/openid-configuration",
		Tokens:       tokens,
		Roles:        authroles.StaticRoleMapper{AdminGroup: "desk-admins", UserGroup: "desk-users"},
		HTTPClient:   f.srv.Client(),
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ProviderConfig
		field string
	}{
		{"missing client", ProviderConfig{DiscoveryURL: "http://x", Tokens: staticTokens{}}, "client_id"},
		{"missing discovery", ProviderConfig{ClientID: "c", Tokens: staticTokens{}}, "discovery_url"},
		{"missing tokens", ProviderConfig{ClientID: "c", DiscoveryURL: "http://x"}, "tokens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			assert.Equal(t, tt.field, errors.GetField(err))
		})
	}
}

func TestNewProvider_Discovery(t *testing.T) {
	f := newFakeIdP(t)
	p := newTestProvider(t, f, staticTokens{})

	assert.Equal(t, f.srv.URL+"/token", p.config.Endpoint.TokenURL)
	assert.Equal(t, f.srv.URL+"/revoke", p.RevocationURL())
	assert.Equal(t, []string{"profile", "groups"}, p.config.Scopes)
	assert.False(t, p.hasOpenIDScope())
}

func TestNewProvider_DiscoveryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "c",
		DiscoveryURL: srv.URL,
		Tokens:       staticTokens{},
	})
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err))
}

func TestProvider_Login(t *testing.T) {
	f := newFakeIdP(t)
	p := newTestProvider(t, f, staticTokens{})
	ctx := context.Background()

	tok, err := p.Login(ctx, domainauth.LoginInput{Username: "alice", Password: "s3cret", Code: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.Token("at-123"), tok)

	_, err = p.Login(ctx, domainauth.LoginInput{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.IsAuthRejected(err))
	assert.Equal(t, http.StatusBadRequest, errors.GetStatus(err))

	_, err = p.Login(ctx, domainauth.LoginInput{Password: "s3cret"})
	assert.True(t, errors.IsValidation(err))
}

func TestProvider_GetInfo(t *testing.T) {
	f := newFakeIdP(t)
	f.set(func(f *fakeIdP) {
		f.userinfo = map[string]any{
			"sub":                "u-1",
			"preferred_username": "alice",
			"name":               "Alice A",
			"email":              "alice@example.com",
			"picture":            "https://cdn.example.com/a.png",
			"groups":             []string{"desk-users", "desk-admins"},
			"permissions":        []string{"stock:view"},
		}
	})
	p := newTestProvider(t, f, staticTokens{tok: "at-123"})

	info, err := p.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainauth.UserID("u-1"), info.User.UserID)
	assert.Equal(t, "alice", info.User.UserName)
	assert.Equal(t, "Alice A", info.User.NickName)
	assert.Equal(t, "https://cdn.example.com/a.png", info.User.Avatar)
	assert.Equal(t, []string{"admin", "common"}, info.Roles)
	assert.Equal(t, []string{"stock:view"}, info.Permissions)
}

func TestProvider_GetInfo_NoMatchingGroups(t *testing.T) {
	f := newFakeIdP(t)
	f.set(func(f *fakeIdP) {
		f.userinfo = map[string]any{"sub": "u-2", "samaccountname": "bob", "memberof": []string{"elsewhere"}}
	})
	p := newTestProvider(t, f, staticTokens{tok: "at-123"})

	info, err := p.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bob", info.User.UserName)
	assert.Empty(t, info.Roles)
	assert.Nil(t, info.Permissions)
}

func TestProvider_GetInfo_Errors(t *testing.T) {
	f := newFakeIdP(t)
	ctx := context.Background()

	p := newTestProvider(t, f, staticTokens{})
	_, err := p.GetInfo(ctx)
	assert.True(t, errors.IsUnauthenticated(err), "no token")

	p = newTestProvider(t, f, staticTokens{tok: "stale"})
	_, err = p.GetInfo(ctx)
	assert.True(t, errors.IsUnauthenticated(err), "rejected token")

	f.set(func(f *fakeIdP) { f.userSt = http.StatusInternalServerError })
	p = newTestProvider(t, f, staticTokens{tok: "at-123"})
	_, err = p.GetInfo(ctx)
	assert.True(t, errors.IsRemote(err))

	restoreErr := errors.StorageUnavailable("gone")
	p = newTestProvider(t, f, staticTokens{err: restoreErr})
	_, err = p.GetInfo(ctx)
	assert.Same(t, restoreErr, err)
}

func TestProvider_Logout(t *testing.T) {
	f := newFakeIdP(t)
	p := newTestProvider(t, f, staticTokens{})
	ctx := context.Background()

	require.NoError(t, p.Logout(ctx, "at-123"))
	require.NoError(t, p.Logout(ctx, ""))
	assert.Equal(t, []string{"at-123"}, f.revokedTokens())

	f.set(func(f *fakeIdP) { f.revokeSt = http.StatusServiceUnavailable })
	err := p.Logout(ctx, "at-123")
	require.Error(t, err)
	assert.True(t, errors.IsRemote(err))
	assert.Equal(t, http.StatusServiceUnavailable, errors.GetStatus(err))
}

func TestProvider_Logout_NoRevocationEndpoint(t *testing.T) {
	f := newFakeIdP(t)
	f.set(func(f *fakeIdP) { f.noRevoke = true })
	p := newTestProvider(t, f, staticTokens{})

	assert.Empty(t, p.RevocationURL())
	require.NoError(t, p.Logout(context.Background(), "at-123"))
	assert.Empty(t, f.revokedTokens())
}

func TestProvider_Logout_Unreachable(t *testing.T) {
	f := newFakeIdP(t)
	p := newTestProvider(t, f, staticTokens{})
	p.revokeURL = "http://127.0.0.1:1/revoke"

	err := p.Logout(context.Background(), "at-123")
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err))
}

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ ports.AuthService = (*Provider)(nil)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Empty(t, firstNonEmpty("", ""))
}
