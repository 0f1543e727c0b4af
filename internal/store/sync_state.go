package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SyncWindow tracks backfill progress for the single local athlete.
type SyncWindow struct {
	BackfillComplete  bool
	BackfillWatermark *time.Time
	LastFullSync      *time.Time
}

type SyncState struct {
	db *sql.DB
}

func (s *SyncState) Get(ctx context.Context) (*SyncWindow, error) {
	const query = `
		SELECT backfill_complete, backfill_watermark, last_full_sync
		FROM sync_state
		WHERE id = 1`

	var (
		window    SyncWindow
		watermark sql.NullTime
		fullSync  sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query).Scan(&window.BackfillComplete, &watermark, &fullSync)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.Upsert(ctx, &SyncWindow{}); err != nil {
			return nil, err
		}
		return &SyncWindow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading sync state: %w", err)
	}

	if watermark.Valid {
		window.BackfillWatermark = &watermark.Time
	}
	if fullSync.Valid {
		window.LastFullSync = &fullSync.Time
	}

	return &window, nil
}

func (s *SyncState) Upsert(ctx context.Context, window *SyncWindow) error {
	const query = `
		INSERT INTO sync_state (id, backfill_complete, backfill_watermark, last_full_sync)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			backfill_complete = excluded.backfill_complete,
			backfill_watermark = excluded.backfill_watermark,
			last_full_sync = excluded.last_full_sync`

	if _, err := s.db.ExecContext(ctx, query, window.BackfillComplete, window.BackfillWatermark, window.LastFullSync); err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

func (s *SyncState) MarkBackfillComplete(ctx context.Context) error {
	const query = `
		INSERT INTO sync_state (id, backfill_complete)
		VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET backfill_complete = 1`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("marking backfill complete: %w", err)
	}
	return nil
}

func (s *SyncState) UpdateBackfillWatermark(ctx context.Context, watermark time.Time) error {
	const query = `
		INSERT INTO sync_state (id, backfill_watermark)
		VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET backfill_watermark = excluded.backfill_watermark`

	if _, err := s.db.ExecContext(ctx, query, watermark); err != nil {
		return fmt.Errorf("updating backfill watermark: %w", err)
	}
	return nil
}

func (s *SyncState) UpdateLastFullSync(ctx context.Context, syncTime time.Time) error {
	const query = `
		INSERT INTO sync_state (id, last_full_sync)
		VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET last_full_sync = excluded.last_full_sync`

	if _, err := s.db.ExecContext(ctx, query, syncTime); err != nil {
		return fmt.Errorf("updating last full sync: %w", err)
	}
	return nil
}
