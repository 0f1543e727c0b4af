package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type syncStateRepo struct {
	pool *pgxpool.Pool
}

func (r *syncStateRepo) Get(ctx context.Context, athleteID int64) (*SyncState, error) {
	const query = `
		SELECT athlete_id, backfill_complete, backfill_watermark, last_full_sync
		FROM sync_state
		WHERE athlete_id = $1`

	var state SyncState
	err := r.pool.QueryRow(ctx, query, athleteID).Scan(
		&state.AthleteID,
		&state.BackfillComplete,
		&state.BackfillWatermark,
		&state.LastFullSync,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &SyncState{AthleteID: athleteID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sync state for athlete %d: %w", athleteID, err)
	}
	return &state, nil
}

func (r *syncStateRepo) MarkBackfillComplete(ctx context.Context, athleteID int64) error {
	const query = `
		INSERT INTO sync_state (athlete_id, backfill_complete)
		VALUES ($1, TRUE)
		ON CONFLICT (athlete_id) DO UPDATE SET backfill_complete = TRUE`

	if _, err := r.pool.Exec(ctx, query, athleteID); err != nil {
		return fmt.Errorf("mark backfill complete for athlete %d: %w", athleteID, err)
	}
	return nil
}

func (r *syncStateRepo) UpdateBackfillWatermark(ctx context.Context, athleteID int64, watermark time.Time) error {
	const query = `
		INSERT INTO sync_state (athlete_id, backfill_watermark)
		VALUES ($1, $2)
		ON CONFLICT (athlete_id) DO UPDATE SET backfill_watermark = EXCLUDED.backfill_watermark`

	if _, err := r.pool.Exec(ctx, query, athleteID, watermark); err != nil {
		return fmt.Errorf("update backfill watermark for athlete %d: %w", athleteID, err)
	}
	return nil
}

func (r *syncStateRepo) UpdateLastFullSync(ctx context.Context, athleteID int64, syncTime time.Time) error {
	const query = `
		INSERT INTO sync_state (athlete_id, last_full_sync)
		VALUES ($1, $2)
		ON CONFLICT (athlete_id) DO UPDATE SET last_full_sync = EXCLUDED.last_full_sync`

	if _, err := r.pool.Exec(ctx, query, athleteID, syncTime); err != nil {
		return fmt.Errorf("update last full sync for athlete %d: %w", athleteID, err)
	}
	return nil
}
