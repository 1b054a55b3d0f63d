// Package oidc provides an OIDC/OAuth2 authentication service for the stockdesk console client.
package oidc

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/ports"
)

// TokenRestorer yields the bearer token of the current session.
type TokenRestorer interface {
	Restore(ctx context.Context) (domainauth.Token, error)
}

// Provider implements ports.AuthService against an OpenID Connect provider
// using the resource owner password grant, the UserInfo endpoint and RFC 7009
// token revocation.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	tokens     TokenRestorer
	roles      ports.RoleMapper

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
	revokeURL    string
}

var _ ports.AuthService = (*Provider)(nil)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	Tokens       TokenRestorer
	Roles        ports.RoleMapper
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
}

// discoveryExtras holds discovery members go-oidc does not expose directly.
type discoveryExtras struct {
	RevocationEndpoint string `json:"revocation_endpoint"`
}

// NewProvider creates a new OIDC provider, fetching the discovery document once.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.ValidationField("client_id", "client ID is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.ValidationField("discovery_url", "discovery URL is required")
	}
	if config.Tokens == nil {
		return nil, errors.ValidationField("tokens", "token store is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{
		httpClient: httpClient,
		tokens:     config.Tokens,
		roles:      config.Roles,
	}

	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(p.clientContext(ctx), issuer)
	if err != nil {
		return nil, errors.MapTransportError(fmt.Errorf("oidc new provider: %w", err), "oidc discovery")
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	var extras discoveryExtras
	if err := op.Claims(&extras); err == nil {
		p.revokeURL = extras.RevocationEndpoint
	}

	scope := config.Scope
	if scope == "" {
		scope = "openid profile"
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// Login exchanges username and password for an access token.
// Code and UUID are ignored; OIDC providers run their own challenge flows.
func (p *Provider) Login(ctx context.Context, in domainauth.LoginInput) (domainauth.Token, error) {
	if in.Username == "" {
		return "", errors.ValidationField("username", "username is required")
	}

	tok, err := p.config.PasswordCredentialsToken(p.clientContext(ctx), in.Username, in.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if stderrors.As(err, &retrieveErr) {
			e := errors.Wrap(err, errors.ErrCodeAuthRejected, "password grant rejected")
			if retrieveErr.Response != nil {
				e.Status = retrieveErr.Response.StatusCode
			}
			return "", e
		}
		return "", errors.MapTransportError(err, "password grant")
	}

	if raw, ok := tok.Extra("id_token").(string); ok && raw != "" && p.hasOpenIDScope() {
		if _, err := p.verifier.Verify(ctx, raw); err != nil {
			return "", errors.Wrap(err, errors.ErrCodeAuthRejected, "verify id_token")
		}
	}

	return domainauth.Token(tok.AccessToken), nil
}

// userInfoClaims is the superset of standard and AD/ADFS-shaped claims we read.
type userInfoClaims struct {
	Subject           string   `json:"sub"`
	PreferredUsername string   `json:"preferred_username"`
	SamAccountName    string   `json:"samaccountname"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Mail              string   `json:"mail"`
	Picture           string   `json:"picture"`
	Groups            []string `json:"groups"`
	MemberOf          []string `json:"memberof"`
	Permissions       []string `json:"permissions"`
}

// GetInfo reads the UserInfo endpoint with the current session token.
func (p *Provider) GetInfo(ctx context.Context) (domainauth.UserInfo, error) {
	tok, err := p.tokens.Restore(ctx)
	if err != nil {
		return domainauth.UserInfo{}, err
	}
	if tok.IsEmpty() {
		return domainauth.UserInfo{}, errors.Unauthenticated("no session token")
	}

	ui, err := p.oidcProvider.UserInfo(p.clientContext(ctx), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(tok)}))
	if err != nil {
		return domainauth.UserInfo{}, mapUserInfoError(err)
	}
	var claims userInfoClaims
	if err := ui.Claims(&claims); err != nil {
		return domainauth.UserInfo{}, errors.Wrap(err, errors.ErrCodeDeserialization, "decode user info")
	}
	return p.mapClaims(claims), nil
}

func (p *Provider) mapClaims(c userInfoClaims) domainauth.UserInfo {
	groups := c.Groups
	if len(groups) == 0 {
		groups = c.MemberOf
	}
	roles := groups
	if p.roles != nil {
		roles = p.roles.Map(groups)
	}
	return domainauth.UserInfo{
		User: domainauth.User{
			UserID:   domainauth.UserID(c.Subject),
			UserName: firstNonEmpty(c.PreferredUsername, c.SamAccountName, c.Name, c.Email, c.Mail, c.Subject),
			NickName: c.Name,
			Avatar:   c.Picture,
			Email:    firstNonEmpty(c.Email, c.Mail),
		},
		Roles:       roles,
		Permissions: c.Permissions,
	}
}

func mapUserInfoError(err error) error {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return errors.MapTransportError(err, "oidc userinfo")
	}
	// go-oidc reports non-200 responses as "<status>: <body>".
	if strings.HasPrefix(err.Error(), "401") || strings.HasPrefix(err.Error(), "403") {
		return errors.Wrap(err, errors.ErrCodeUnauthenticated, "userinfo rejected token")
	}
	return errors.Wrap(err, errors.ErrCodeRemote, "userinfo failed")
}

// Logout revokes token when the provider advertises a revocation endpoint.
// Without one there is nothing to tell the provider and Logout succeeds.
func (p *Provider) Logout(ctx context.Context, token domainauth.Token) error {
	if p.revokeURL == "" || token.IsEmpty() {
		return nil
	}

	form := url.Values{}
	form.Set("token", string(token))
	form.Set("token_type_hint", "access_token")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "build revocation request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(p.config.ClientID), url.QueryEscape(p.config.ClientSecret))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.MapTransportError(err, "token revocation")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Remote(resp.StatusCode, fmt.Sprintf("token revocation failed with status %d", resp.StatusCode))
	}
	return nil
}

// RevocationURL returns the discovered revocation endpoint, if any.
func (p *Provider) RevocationURL() string { return p.revokeURL }

// hasOpenIDScope reports whether the configured scopes include "openid".
func (p *Provider) hasOpenIDScope() bool {
	for _, sc := range p.config.Scopes {
		if sc == "openid" {
			return true
		}
	}
	return false
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
