package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// Tokens persists the single Strava OAuth token. The table is keyed to
// one row; saving replaces whatever was there.
type Tokens struct {
	db *sql.DB
}

func (t *Tokens) Get(ctx context.Context) (*oauth2.Token, error) {
	const query = `
		SELECT access_token, refresh_token, token_type, expiry
		FROM token
		WHERE id = 1`

	var (
		token   oauth2.Token
		refresh sql.NullString
	)

	err := t.db.QueryRowContext(ctx, query).Scan(
		&token.AccessToken,
		&refresh,
		&token.TokenType,
		&token.Expiry,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	if refresh.Valid {
		token.RefreshToken = refresh.String
	}

	return &token, nil
}

func (t *Tokens) Save(ctx context.Context, token *oauth2.Token) error {
	const query = `
		INSERT INTO token (id, access_token, refresh_token, token_type, expiry)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = COALESCE(excluded.refresh_token, token.refresh_token),
			token_type = excluded.token_type,
			expiry = excluded.expiry`

	var refresh *string
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}

	if _, err := t.db.ExecContext(ctx, query, token.AccessToken, refresh, token.TokenType, token.Expiry); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

func (t *Tokens) Delete(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, "DELETE FROM token WHERE id = 1"); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
