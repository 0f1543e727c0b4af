package xsync

import (
	"context"
	"time"

	"github.com/pulsecoach/pulse/internal/xslog"
)

// refreshOverlap rewinds the watermark slightly so activities uploaded
// out of order or re-scored by Strava are picked up.
const refreshOverlap = 48 * time.Hour

func (s *Service) Refresh(ctx context.Context) error {
	s.logger.InfoContext(ctx, "refreshing recent activities")

	latest, err := s.store.Activities.LatestStart(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	start := now.Add(-BackfillDuration)
	if latest != nil {
		start = latest.Add(-refreshOverlap)
	}

	n, err := s.fetchWindow(ctx, start, now)
	if err != nil {
		return err
	}

	if err := s.store.SyncState.UpdateLastFullSync(ctx, now); err != nil {
		s.logger.WarnContext(ctx, "failed to update last sync time", xslog.Error(err))
	}

	s.logger.InfoContext(ctx, "refreshed activities", xslog.Count(n))
	return nil
}
