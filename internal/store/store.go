// Package store is the CLI's local sqlite persistence layer. It holds
// the Strava token, the synced activity history, and the sync
// watermark so load metrics can be computed offline.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pulsecoach/pulse/internal/migrations"
)

var ErrNotFound = errors.New("store: not found")

type Store struct {
	Tokens     *Tokens
	Activities *Activities
	SyncState  *SyncState

	db *sql.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// sqlite serializes writers anyway; a single connection avoids
	// SQLITE_BUSY under concurrent sync workers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &Store{
		Tokens:     &Tokens{db: db},
		Activities: &Activities{db: db},
		SyncState:  &SyncState{db: db},
		db:         db,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
