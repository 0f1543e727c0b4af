package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/xsync"
)

// dashboardWindowDays is how much history feeds the dashboard. Long
// enough for the 28-day chronic window to settle.
const dashboardWindowDays = 90

func checkAuthCmd(checker oauth.TokenChecker) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		hasToken, err := checker.HasToken(ctx)
		return AuthStatusMsg{HasToken: hasToken, Err: err}
	}
}

func fetchMetricsCmd(fetcher xsync.DataFetcher) tea.Cmd {
	if fetcher == nil {
		return func() tea.Msg {
			return MetricsDataMsg{}
		}
	}

	return func() tea.Msg {
		var (
			ctx = context.Background()
			msg = MetricsDataMsg{}
			end = time.Now()
		)

		activities, err := fetcher.GetActivities(ctx, end.AddDate(0, 0, -dashboardWindowDays), end)
		if err != nil {
			msg.Err = err
			return msg
		}

		thresholds, err := fetcher.GetThresholds(ctx)
		if err != nil {
			msg.Err = err
			return msg
		}

		calc := analytics.NewCalculator(thresholds)
		points := calc.LoadPoints(activities)

		metrics := calc.LoadMetrics(points)
		msg.Metrics = &metrics

		if len(points) > 0 {
			last := points[len(points)-1]
			ly, lm, ld := last.Date.Date()
			ny, nm, nd := end.Date()
			if ly == ny && lm == nm && ld == nd {
				load := last.NormalizedLoad
				msg.TodayLoad = &load
			}
		}

		return msg
	}
}

func syncCmd(svc xsync.SyncService) tea.Cmd {
	if svc == nil {
		return func() tea.Msg {
			return SyncDoneMsg{}
		}
	}

	return func() tea.Msg {
		ctx := context.Background()
		if err := svc.Refresh(ctx); err != nil {
			return SyncDoneMsg{Err: err}
		}
		return SyncDoneMsg{Err: svc.StartBackfill(ctx)}
	}
}
