package core

import (
	"context"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
)

// DefaultTokenKey is the persistent-scope key holding the bearer token.
const DefaultTokenKey = "Admin-Token"

// TokenStore persists the bearer token in the persistent cache scope.
type TokenStore struct {
	cache *ScopedCache
	key   string
}

// NewTokenStore creates a TokenStore. An empty key selects DefaultTokenKey.
func NewTokenStore(cache *ScopedCache, key string) *TokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenStore{cache: cache, key: key}
}

// Key returns the storage key used for the token.
func (s *TokenStore) Key() string { return s.key }

// Restore reads the persisted token. The empty token is returned when none is stored.
func (s *TokenStore) Restore(ctx context.Context) (domainauth.Token, error) {
	v, _, err := s.cache.Get(ctx, ScopePersistent, s.key)
	if err != nil {
		return "", err
	}
	return domainauth.Token(v), nil
}

// Persist writes token to the persistent scope.
func (s *TokenStore) Persist(ctx context.Context, token domainauth.Token) error {
	return s.cache.Set(ctx, ScopePersistent, s.key, string(token))
}

// Clear removes the persisted token.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.cache.Remove(ctx, ScopePersistent, s.key)
}
