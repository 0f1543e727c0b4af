package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsecoach/pulse/internal/analytics"
)

type activityRepo struct {
	pool *pgxpool.Pool
}

const upsertActivityQuery = `
	INSERT INTO activities (
		id, athlete_id, name, sport_type, start_date_local,
		moving_time_sec, elapsed_time_sec, has_heartrate,
		average_heartrate, max_heartrate, average_watts, weighted_average_watts,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		sport_type = EXCLUDED.sport_type,
		start_date_local = EXCLUDED.start_date_local,
		moving_time_sec = EXCLUDED.moving_time_sec,
		elapsed_time_sec = EXCLUDED.elapsed_time_sec,
		has_heartrate = EXCLUDED.has_heartrate,
		average_heartrate = EXCLUDED.average_heartrate,
		max_heartrate = EXCLUDED.max_heartrate,
		average_watts = EXCLUDED.average_watts,
		weighted_average_watts = EXCLUDED.weighted_average_watts,
		updated_at = NOW()`

func activityArgs(activity *analytics.Activity) []any {
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

func (r *activityRepo) Upsert(ctx context.Context, activity *analytics.Activity) error {
	if _, err := r.pool.Exec(ctx, upsertActivityQuery, activityArgs(activity)...); err != nil {
		return fmt.Errorf("upsert activity %d: %w", activity.ID, err)
	}
	return nil
}

func (r *activityRepo) UpsertBatch(ctx context.Context, activities []analytics.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range activities {
		batch.Queue(upsertActivityQuery, activityArgs(&activities[i])...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for i := range activities {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert activity %d: %w", activities[i].ID, err)
		}
	}
	return nil
}

const selectActivityColumns = `
	id, athlete_id, name, sport_type, start_date_local,
	moving_time_sec, elapsed_time_sec, has_heartrate,
	average_heartrate, max_heartrate, average_watts, weighted_average_watts`

func scanActivity(row pgx.Row) (analytics.Activity, error) {
	var activity analytics.Activity
	err := row.Scan(
		&activity.ID,
		&activity.AthleteID,
		&activity.Name,
		&activity.SportType,
		&activity.StartDateLocal,
		&activity.MovingTimeSec,
		&activity.ElapsedTimeSec,
		&activity.HasHeartRate,
		&activity.AverageHeartRate,
		&activity.MaxHeartRate,
		&activity.AveragePower,
		&activity.WeightedPower,
	)
	return activity, err
}

func (r *activityRepo) Get(ctx context.Context, id int64) (*analytics.Activity, error) {
	query := "SELECT " + selectActivityColumns + " FROM activities WHERE id = $1"

	activity, err := scanActivity(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activity %d: %w", id, err)
	}
	return &activity, nil
}

func (r *activityRepo) ListByAthlete(ctx context.Context, athleteID int64, start, end time.Time) ([]analytics.Activity, error) {
	query := "SELECT " + selectActivityColumns + `
		FROM activities
		WHERE athlete_id = $1 AND start_date_local >= $2 AND start_date_local < $3
		ORDER BY start_date_local ASC`

	rows, err := r.pool.Query(ctx, query, athleteID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list activities for athlete %d: %w", athleteID, err)
	}
	defer rows.Close()

	var activities []analytics.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}

func (r *activityRepo) ListByAthletePage(ctx context.Context, athleteID int64, start, end time.Time, cursor *CursorParams) (*CursorResult[analytics.Activity], error) {
	limit := DefaultPageSize
	if cursor != nil && cursor.Limit > 0 {
		limit = cursor.Limit
	}

	// Fetch one extra row to detect whether another page exists.
	fetchLimit := limit + 1

	query := "SELECT " + selectActivityColumns + `
		FROM activities
		WHERE athlete_id = $1 AND start_date_local >= $2 AND start_date_local < $3`
	args := []any{athleteID, start, end}

	if cursor != nil && cursor.Cursor != nil {
		query += " AND start_date_local > $4 ORDER BY start_date_local ASC LIMIT $5"
		args = append(args, *cursor.Cursor, fetchLimit)
	} else {
		query += " ORDER BY start_date_local ASC LIMIT $4"
		args = append(args, fetchLimit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("page activities for athlete %d: %w", athleteID, err)
	}
	defer rows.Close()

	var activities []analytics.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	result := &CursorResult[analytics.Activity]{Records: activities}
	if len(activities) > limit {
		result.Records = activities[:limit]
		next := result.Records[limit-1].StartDateLocal
		result.NextCursor = &next
	}
	return result, nil
}

func (r *activityRepo) LatestStart(ctx context.Context, athleteID int64) (*time.Time, error) {
	const query = "SELECT MAX(start_date_local) FROM activities WHERE athlete_id = $1"

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query, athleteID).Scan(&latest); err != nil {
		return nil, fmt.Errorf("latest activity start for athlete %d: %w", athleteID, err)
	}
	return latest, nil
}
