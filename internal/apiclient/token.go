package apiclient

import (
	"context"

	"golang.org/x/oauth2"

	domainauth "github.com/stockdesk/console/internal/domain/auth"
)

// TokenRestorer yields the currently persisted bearer token.
type TokenRestorer interface {
	Restore(ctx context.Context) (domainauth.Token, error)
}

type storeTokenSource struct {
	store TokenRestorer
}

// NewTokenSource adapts a token store to oauth2.TokenSource. The store is read
// on every call so a login or logout takes effect on the next request.
// An absent token yields an invalid oauth2.Token and no Authorization header.
func NewTokenSource(store TokenRestorer) oauth2.TokenSource {
	return &storeTokenSource{store: store}
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.store.Restore(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: string(tok), TokenType: "Bearer"}, nil
}
