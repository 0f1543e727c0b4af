package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
)

type Activities struct {
	db *sql.DB
}

const upsertActivityQuery = `
	INSERT INTO activities (
		id, athlete_id, name, sport_type, start_date_local,
		moving_time_sec, elapsed_time_sec, has_heartrate,
		average_heartrate, max_heartrate, average_watts, weighted_average_watts
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		sport_type = excluded.sport_type,
		start_date_local = excluded.start_date_local,
		moving_time_sec = excluded.moving_time_sec,
		elapsed_time_sec = excluded.elapsed_time_sec,
		has_heartrate = excluded.has_heartrate,
		average_heartrate = excluded.average_heartrate,
		max_heartrate = excluded.max_heartrate,
		average_watts = excluded.average_watts,
		weighted_average_watts = excluded.weighted_average_watts`

func (a *Activities) Upsert(ctx context.Context, activity analytics.Activity) error {
	if _, err := a.db.ExecContext(ctx, upsertActivityQuery, upsertActivityArgs(activity)...); err != nil {
		return fmt.Errorf("upserting activity %d: %w", activity.ID, err)
	}
	return nil
}

func (a *Activities) UpsertBatch(ctx context.Context, activities []analytics.Activity) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range activities {
		if err := a.upsertTx(ctx, tx, activities[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (a *Activities) upsertTx(ctx context.Context, tx *sql.Tx, activity analytics.Activity) error {
	if _, err := tx.ExecContext(ctx, upsertActivityQuery, upsertActivityArgs(activity)...); err != nil {
		return fmt.Errorf("upserting activity %d: %w", activity.ID, err)
	}
	return nil
}

func upsertActivityArgs(activity analytics.Activity) []any {
	return []any{
		activity.ID,
		activity.AthleteID,
		activity.Name,
		activity.SportType,
		activity.StartDateLocal,
		activity.MovingTimeSec,
		activity.ElapsedTimeSec,
		activity.HasHeartRate,
		activity.AverageHeartRate,
		activity.MaxHeartRate,
		activity.AveragePower,
		activity.WeightedPower,
	}
}

func (a *Activities) Get(ctx context.Context, id int64) (*analytics.Activity, error) {
	const query = `
		SELECT id, athlete_id, name, sport_type, start_date_local,
			moving_time_sec, elapsed_time_sec, has_heartrate,
			average_heartrate, max_heartrate, average_watts, weighted_average_watts
		FROM activities
		WHERE id = ?`

	row := a.db.QueryRowContext(ctx, query, id)
	activity, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading activity %d: %w", id, err)
	}
	return &activity, nil
}

// List returns all activities starting at or after since, oldest
// first. A nil since returns the full history.
func (a *Activities) List(ctx context.Context, since *time.Time) ([]analytics.Activity, error) {
	query := `
		SELECT id, athlete_id, name, sport_type, start_date_local,
			moving_time_sec, elapsed_time_sec, has_heartrate,
			average_heartrate, max_heartrate, average_watts, weighted_average_watts
		FROM activities`
	args := []any{}

	if since != nil {
		query += " WHERE start_date_local >= ?"
		args = append(args, *since)
	}
	query += " ORDER BY start_date_local ASC"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var activities []analytics.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}

	return activities, nil
}

// LatestStart returns the newest synced activity start, or nil when
// the store is empty. Sync uses it as the incremental watermark.
func (a *Activities) LatestStart(ctx context.Context) (*time.Time, error) {
	// MAX(start_date_local) loses the column's TIMESTAMP affinity and
	// scans back as a string, so select the newest row instead.
	const query = `
		SELECT start_date_local FROM activities
		ORDER BY start_date_local DESC
		LIMIT 1`

	var latest time.Time
	err := a.db.QueryRowContext(ctx, query).Scan(&latest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest activity start: %w", err)
	}
	return &latest, nil
}

func (a *Activities) Count(ctx context.Context) (int, error) {
	var count int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting activities: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (analytics.Activity, error) {
	var activity analytics.Activity
	var avgHR, maxHR, avgWatts, normWatts sql.NullFloat64

	err := row.Scan(
		&activity.ID,
		&activity.AthleteID,
		&activity.Name,
		&activity.SportType,
		&activity.StartDateLocal,
		&activity.MovingTimeSec,
		&activity.ElapsedTimeSec,
		&activity.HasHeartRate,
		&avgHR,
		&maxHR,
		&avgWatts,
		&normWatts,
	)
	if err != nil {
		return analytics.Activity{}, err
	}

	if avgHR.Valid {
		activity.AverageHeartRate = &avgHR.Float64
	}
	if maxHR.Valid {
		activity.MaxHeartRate = &maxHR.Float64
	}
	if avgWatts.Valid {
		activity.AveragePower = &avgWatts.Float64
	}
	if normWatts.Valid {
		activity.WeightedPower = &normWatts.Float64
	}

	return activity, nil
}
