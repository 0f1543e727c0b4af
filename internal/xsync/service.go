// Package xsync pulls activity history from Strava into the local
// store so the load engine can run offline.
package xsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulsecoach/pulse/internal/client/strava"
	"github.com/pulsecoach/pulse/internal/store"
	"github.com/pulsecoach/pulse/internal/xslog"
)

type SyncService interface {
	// StartBackfill begins a background goroutine that walks the
	// athlete's history back to the backfill horizon.
	StartBackfill(ctx context.Context) error

	// Refresh fetches activities newer than the sync watermark. This
	// should be called on TUI startup and by `pulse sync`.
	Refresh(ctx context.Context) error

	// FetchRange fetches activities for a specific window, used when
	// the user expands the dashboard's time horizon.
	FetchRange(ctx context.Context, start, end time.Time) error

	// IsBackfillComplete returns whether the initial backfill has finished.
	IsBackfillComplete(ctx context.Context) (bool, error)
}

type Service struct {
	client *strava.Client
	store  *store.Store
	logger *slog.Logger
}

var _ SyncService = (*Service)(nil)

func NewService(client *strava.Client, st *store.Store, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		store:  st,
		logger: logger,
	}
}

func (s *Service) StartBackfill(ctx context.Context) error {
	window, err := s.store.SyncState.Get(ctx)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if window.BackfillComplete {
		s.logger.InfoContext(ctx, "backfill already complete, skipping")
		return nil
	}

	go func() {
		if err := s.Backfill(ctx); err != nil {
			s.logger.ErrorContext(ctx, "backfill failed", xslog.Error(err))
		}
	}()
	return nil
}

func (s *Service) IsBackfillComplete(ctx context.Context) (bool, error) {
	window, err := s.store.SyncState.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	return window.BackfillComplete, nil
}
