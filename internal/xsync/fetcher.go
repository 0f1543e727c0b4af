package xsync

import (
	"context"
	"log/slog"
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/client/strava"
	"github.com/pulsecoach/pulse/internal/store"
	"github.com/pulsecoach/pulse/internal/xslog"
)

// DataFetcher provides cache-aware access to activity data. It reads
// the local store first and falls back to the API when a window has
// never been synced.
type DataFetcher interface {
	GetActivities(ctx context.Context, start, end time.Time) ([]analytics.Activity, error)

	// GetThresholds estimates reference values from the synced history,
	// preferring the FTP the athlete has set on their Strava profile.
	GetThresholds(ctx context.Context) (analytics.AthleteThresholds, error)
}

type Fetcher struct {
	svc    *Service
	client *strava.Client
	store  *store.Store
	logger *slog.Logger
}

var _ DataFetcher = (*Fetcher)(nil)

func NewFetcher(svc *Service) *Fetcher {
	return &Fetcher{
		svc:    svc,
		client: svc.client,
		store:  svc.store,
		logger: svc.logger,
	}
}

func (f *Fetcher) GetActivities(ctx context.Context, start, end time.Time) ([]analytics.Activity, error) {
	activities, err := f.listWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(activities) > 0 {
		return activities, nil
	}

	if _, err := f.svc.fetchWindow(ctx, start, end); err != nil {
		return nil, err
	}

	return f.listWindow(ctx, start, end)
}

func (f *Fetcher) listWindow(ctx context.Context, start, end time.Time) ([]analytics.Activity, error) {
	activities, err := f.store.Activities.List(ctx, &start)
	if err != nil {
		return nil, err
	}

	inWindow := activities[:0]
	for _, a := range activities {
		if a.StartDateLocal.Before(end) {
			inWindow = append(inWindow, a)
		}
	}
	return inWindow, nil
}

func (f *Fetcher) GetThresholds(ctx context.Context) (analytics.AthleteThresholds, error) {
	activities, err := f.store.Activities.List(ctx, nil)
	if err != nil {
		return analytics.AthleteThresholds{}, err
	}

	thresholds := analytics.EstimateThresholds(activities)

	athlete, err := f.client.Athlete.GetAuthenticated(ctx)
	if err != nil {
		// The estimate is still usable offline.
		f.logger.WarnContext(ctx, "failed to fetch athlete profile", xslog.Error(err))
		return thresholds, nil
	}

	if athlete.FTP != nil && *athlete.FTP > 0 {
		thresholds.FTP = athlete.FTP
	}

	return thresholds, nil
}
