// Package repository is the server's postgres persistence layer for
// athletes, their activity history, and per-athlete sync progress.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsecoach/pulse/internal/analytics"
)

var ErrNotFound = errors.New("repository: not found")

type Repository struct {
	Athletes   AthleteRepository
	Activities ActivityRepository
	SyncState  SyncStateRepository
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Athletes:   &athleteRepo{pool: pool},
		Activities: &activityRepo{pool: pool},
		SyncState:  &syncStateRepo{pool: pool},
	}
}

type CursorParams struct {
	Limit  int
	Cursor *time.Time
}

type CursorResult[T any] struct {
	Records    []T
	NextCursor *time.Time
}

const DefaultPageSize = 50

type Athlete struct {
	ID               int64
	Username         string
	Firstname        string
	Lastname         string
	MaxHeartRate     *float64
	RestingHeartRate *float64
	FTP              *float64
	UpdatedAt        time.Time
}

type SyncState struct {
	AthleteID         int64
	BackfillComplete  bool
	BackfillWatermark *time.Time
	LastFullSync      *time.Time
}

type AthleteRepository interface {
	Upsert(ctx context.Context, athlete *Athlete) error
	Get(ctx context.Context, id int64) (*Athlete, error)
	UpdateThresholds(ctx context.Context, id int64, thresholds analytics.AthleteThresholds) error
}

type ActivityRepository interface {
	Upsert(ctx context.Context, activity *analytics.Activity) error
	UpsertBatch(ctx context.Context, activities []analytics.Activity) error
	Get(ctx context.Context, id int64) (*analytics.Activity, error)
	ListByAthlete(ctx context.Context, athleteID int64, start, end time.Time) ([]analytics.Activity, error)
	ListByAthletePage(ctx context.Context, athleteID int64, start, end time.Time, cursor *CursorParams) (*CursorResult[analytics.Activity], error)
	LatestStart(ctx context.Context, athleteID int64) (*time.Time, error)
}

type SyncStateRepository interface {
	Get(ctx context.Context, athleteID int64) (*SyncState, error)
	MarkBackfillComplete(ctx context.Context, athleteID int64) error
	UpdateBackfillWatermark(ctx context.Context, athleteID int64, watermark time.Time) error
	UpdateLastFullSync(ctx context.Context, athleteID int64, syncTime time.Time) error
}
