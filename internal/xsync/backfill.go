package xsync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/client/strava"
	"github.com/pulsecoach/pulse/internal/xslog"
)

const (
	// BackfillDuration covers enough history for the chronic window
	// plus several ramp comparisons.
	BackfillDuration = 180 * 24 * time.Hour

	// backfillChunk splits the horizon into windows fetched in parallel.
	backfillChunk = 30 * 24 * time.Hour

	BackfillPageSize = 100

	maxChunkConcurrency = 2
)

// Backfill walks the athlete's history back to the backfill horizon,
// blocking until every chunk has been stored.
func (s *Service) Backfill(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting backfill")

	end := time.Now()
	start := end.Add(-BackfillDuration)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxChunkConcurrency)

	for chunkStart := start; chunkStart.Before(end); chunkStart = chunkStart.Add(backfillChunk) {
		chunkEnd := chunkStart.Add(backfillChunk)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		g.Go(func() error {
			n, err := s.fetchWindow(gctx, chunkStart, chunkEnd)
			if err != nil {
				return err
			}

			s.logger.InfoContext(gctx, "backfilled chunk",
				xslog.Start(chunkStart),
				xslog.End(chunkEnd),
				xslog.Count(n))

			if err := s.store.SyncState.UpdateBackfillWatermark(gctx, chunkStart); err != nil {
				s.logger.WarnContext(gctx, "failed to update backfill watermark", xslog.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	if err := s.store.SyncState.MarkBackfillComplete(ctx); err != nil {
		return fmt.Errorf("failed to mark backfill complete: %w", err)
	}

	s.logger.InfoContext(ctx, "backfill complete")
	return nil
}

func (s *Service) FetchRange(ctx context.Context, start, end time.Time) error {
	s.logger.InfoContext(ctx, "fetching activity range",
		xslog.Start(start),
		xslog.End(end))

	if _, err := s.fetchWindow(ctx, start, end); err != nil {
		return err
	}
	return nil
}

// fetchWindow pages through [start, end) and upserts every activity,
// returning the number stored.
func (s *Service) fetchWindow(ctx context.Context, start, end time.Time) (int, error) {
	params := &strava.ListParams{
		After:   &start,
		Before:  &end,
		Page:    1,
		PerPage: BackfillPageSize,
	}

	total := 0
	for {
		select {
		case <-ctx.Done():
			return total, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		page, err := s.client.Activities.List(ctx, params)
		if err != nil {
			return total, fmt.Errorf("failed to list activities: %w", err)
		}

		if len(page) == 0 {
			return total, nil
		}

		activities := make([]analytics.Activity, 0, len(page))
		for i := range page {
			activities = append(activities, page[i].ToActivity())
		}

		if err := s.store.Activities.UpsertBatch(ctx, activities); err != nil {
			return total, fmt.Errorf("failed to upsert activities batch: %w", err)
		}

		total += len(activities)

		if len(page) < BackfillPageSize {
			return total, nil
		}
		params.Page++
	}
}
