// Package load computes training load analytics for stored athletes,
// with a short lived cache in front of the rolling window math.
package load

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/repository"
	"github.com/pulsecoach/pulse/internal/storage"
	"github.com/pulsecoach/pulse/internal/xslog"
)

const (
	DefaultWindowDays = 90
	MaxWindowDays     = 365

	metricsTTL = 5 * time.Minute
)

var ErrAthleteNotFound = errors.New("athlete not found")

type Service interface {
	Points(ctx context.Context, athleteID int64, days int) ([]analytics.LoadPoint, error)
	Metrics(ctx context.Context, athleteID int64, days int) (*analytics.TrainingLoadMetrics, error)
	Thresholds(ctx context.Context, athleteID int64) (analytics.AthleteThresholds, error)
}

type service struct {
	repo   *repository.Repository
	cache  storage.MetricsCache
	logger *slog.Logger
}

var _ Service = (*service)(nil)

func NewService(repo *repository.Repository, cache storage.MetricsCache, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func ClampWindow(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}

func (s *service) Points(ctx context.Context, athleteID int64, days int) ([]analytics.LoadPoint, error) {
	calc, activities, err := s.calculatorFor(ctx, athleteID, days)
	if err != nil {
		return nil, err
	}
	return calc.LoadPoints(activities), nil
}

func (s *service) Metrics(ctx context.Context, athleteID int64, days int) (*analytics.TrainingLoadMetrics, error) {
	key := metricsKey(athleteID, days)

	cached, err := s.cache.GetMetrics(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		s.logger.WarnContext(ctx, "metrics cache read failed", xslog.Error(err))
	}

	calc, activities, err := s.calculatorFor(ctx, athleteID, days)
	if err != nil {
		return nil, err
	}

	metrics := calc.LoadMetrics(calc.LoadPoints(activities))

	if err := s.cache.SetMetrics(ctx, key, &metrics, metricsTTL); err != nil {
		s.logger.WarnContext(ctx, "metrics cache write failed", xslog.Error(err))
	}

	return &metrics, nil
}

func (s *service) Thresholds(ctx context.Context, athleteID int64) (analytics.AthleteThresholds, error) {
	calc, _, err := s.calculatorFor(ctx, athleteID, MaxWindowDays)
	if err != nil {
		return analytics.AthleteThresholds{}, err
	}
	return calc.Thresholds(), nil
}

// calculatorFor loads the athlete's window of activities and builds a
// calculator. Stored athlete thresholds override estimates derived
// from history.
func (s *service) calculatorFor(ctx context.Context, athleteID int64, days int) (*analytics.Calculator, []analytics.Activity, error) {
	athlete, err := s.repo.Athletes.Get(ctx, athleteID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrAthleteNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading athlete: %w", err)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -ClampWindow(days))

	activities, err := s.repo.Activities.ListByAthlete(ctx, athleteID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("loading activities: %w", err)
	}

	thresholds := analytics.EstimateThresholds(activities)
	if athlete.MaxHeartRate != nil && *athlete.MaxHeartRate > 0 {
		thresholds.MaxHeartRate = *athlete.MaxHeartRate
	}
	if athlete.RestingHeartRate != nil && *athlete.RestingHeartRate > 0 {
		thresholds.RestingHeartRate = *athlete.RestingHeartRate
	}
	if athlete.FTP != nil && *athlete.FTP > 0 {
		thresholds.FTP = athlete.FTP
	}

	return analytics.NewCalculator(thresholds), activities, nil
}

func metricsKey(athleteID int64, days int) string {
	return fmt.Sprintf("athlete:%d:days:%d", athleteID, days)
}
