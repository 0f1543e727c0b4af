package oauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/pulsecoach/pulse/internal/store"
)

type TokenChecker interface {
	HasToken(ctx context.Context) (bool, error)
}

var (
	_ TokenChecker       = (*StoreTokenSource)(nil)
	_ oauth2.TokenSource = (*StoreTokenSource)(nil)
)

// StoreTokenSource serves tokens from the local store, refreshing
// through the oauth2 config and persisting the result when the stored
// token has expired.
type StoreTokenSource struct {
	config *oauth2.Config
	tokens *store.Tokens
	mu     sync.Mutex
	token  *oauth2.Token
}

func NewStoreTokenSource(config *oauth2.Config, tokens *store.Tokens) *StoreTokenSource {
	return &StoreTokenSource{
		config: config,
		tokens: tokens,
	}
}

func (s *StoreTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil && s.token.Valid() {
		return s.token, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := s.tokens.Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoToken
		}

		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	if token.Valid() {
		s.token = token
		return token, nil
	}

	if token.RefreshToken == "" {
		return nil, ErrTokenExpired
	}

	src := s.config.TokenSource(ctx, token)

	newToken, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	if err := s.tokens.Save(ctx, newToken); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}

	s.token = newToken

	return newToken, nil
}

func (s *StoreTokenSource) HasToken(ctx context.Context) (bool, error) {
	if _, err := s.tokens.Get(ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
