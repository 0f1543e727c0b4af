package tui

import (
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
)

const splashDuration = 1500 * time.Millisecond

type SplashTickMsg struct{}

type AuthStatusMsg struct {
	HasToken bool
	Err      error
}

type MetricsDataMsg struct {
	Metrics   *analytics.TrainingLoadMetrics
	TodayLoad *float64 // nil when no activity was logged today
	Err       error
}

type SyncDoneMsg struct {
	Err error
}
