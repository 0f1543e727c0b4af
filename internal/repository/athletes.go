package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsecoach/pulse/internal/analytics"
)

type athleteRepo struct {
	pool *pgxpool.Pool
}

func (r *athleteRepo) Upsert(ctx context.Context, athlete *Athlete) error {
	const query = `
		INSERT INTO athletes (id, username, firstname, lastname, max_heart_rate, resting_heart_rate, ftp, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			firstname = EXCLUDED.firstname,
			lastname = EXCLUDED.lastname,
			max_heart_rate = COALESCE(EXCLUDED.max_heart_rate, athletes.max_heart_rate),
			resting_heart_rate = COALESCE(EXCLUDED.resting_heart_rate, athletes.resting_heart_rate),
			ftp = COALESCE(EXCLUDED.ftp, athletes.ftp),
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		athlete.ID,
		athlete.Username,
		athlete.Firstname,
		athlete.Lastname,
		athlete.MaxHeartRate,
		athlete.RestingHeartRate,
		athlete.FTP,
	)
	if err != nil {
		return fmt.Errorf("upsert athlete %d: %w", athlete.ID, err)
	}
	return nil
}

func (r *athleteRepo) Get(ctx context.Context, id int64) (*Athlete, error) {
	const query = `
		SELECT id, username, firstname, lastname, max_heart_rate, resting_heart_rate, ftp, updated_at
		FROM athletes
		WHERE id = $1`

	var athlete Athlete
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&athlete.ID,
		&athlete.Username,
		&athlete.Firstname,
		&athlete.Lastname,
		&athlete.MaxHeartRate,
		&athlete.RestingHeartRate,
		&athlete.FTP,
		&athlete.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get athlete %d: %w", id, err)
	}
	return &athlete, nil
}

func (r *athleteRepo) UpdateThresholds(ctx context.Context, id int64, thresholds analytics.AthleteThresholds) error {
	const query = `
		UPDATE athletes
		SET max_heart_rate = $2, resting_heart_rate = $3, ftp = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, thresholds.MaxHeartRate, thresholds.RestingHeartRate, thresholds.FTP)
	if err != nil {
		return fmt.Errorf("update thresholds for athlete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
