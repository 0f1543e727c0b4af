package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/tui/components/gauge"
	"github.com/pulsecoach/pulse/internal/tui/components/status"
	"github.com/pulsecoach/pulse/internal/tui/theme"
)

type DashboardState struct {
	AuthIndicator status.Indicator

	Metrics   *analytics.TrainingLoadMetrics
	TodayLoad *float64
	Syncing   bool
	LoadErr   error
}

func (m *Model) DashboardView() string {
	var (
		acute   *float64
		chronic *float64
	)
	if metrics := m.state.dashboard.Metrics; metrics != nil {
		acute = &metrics.AcuteLoad
		chronic = &metrics.ChronicLoad
	}
	today := m.state.dashboard.TodayLoad

	loadMax := gaugeLoadMax(acute, chronic, today)

	var (
		acuteGauge = gauge.New(
			acute,
			loadMax,
			"ACUTE",
			theme.ColorAcute,
		)

		chronicGauge = gauge.New(
			chronic,
			loadMax,
			"CHRONIC",
			theme.ColorChronic,
		)

		todayGauge = gauge.New(
			today,
			loadMax,
			"TODAY",
			m.statusColor(),
		)
	)

	gaugeSpacing := "    "
	gaugesRow := lipgloss.JoinHorizontal(
		lipgloss.Top,
		acuteGauge.Render(),
		gaugeSpacing,
		chronicGauge.Render(),
		gaugeSpacing,
		todayGauge.Render(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		gaugesRow,
		"",
		m.statusLineView(),
		m.recommendationView(),
	)
}

func (m *Model) statusLineView() string {
	metrics := m.state.dashboard.Metrics
	if metrics == nil {
		if m.state.dashboard.LoadErr != nil {
			return lipgloss.NewStyle().
				Foreground(theme.ColorPeak).
				Render("load data unavailable: " + m.state.dashboard.LoadErr.Error())
		}
		return m.theme.TextDim().Render("crunching numbers...")
	}

	statusStyle := lipgloss.NewStyle().
		Foreground(m.statusColor()).
		Bold(true)

	line := statusStyle.Render(strings.ToUpper(string(metrics.Status)))

	line += m.theme.Base().Render(fmt.Sprintf("   balance %.2f", metrics.Balance))
	if metrics.RampRate != 0 {
		line += m.theme.TextDim().Render(fmt.Sprintf("   ramp %+.0f/wk", metrics.RampRate))
	}
	if m.state.dashboard.Syncing {
		line += m.theme.TextDim().Render("   syncing...")
	}

	return line
}

func (m *Model) recommendationView() string {
	metrics := m.state.dashboard.Metrics
	if metrics == nil || metrics.Recommendation == "" {
		return ""
	}
	return m.theme.TextDim().Render(metrics.Recommendation)
}

func (m *Model) AuthIndicatorView() string {
	return m.state.dashboard.AuthIndicator.Render()
}

func (m *Model) statusColor() color.Color {
	if m.state.dashboard.Metrics == nil {
		return theme.ColorNeutral
	}

	switch m.state.dashboard.Metrics.Status {
	case analytics.StatusPeak:
		return theme.ColorPeak
	case analytics.StatusBuild:
		return theme.ColorBuild
	case analytics.StatusMaintain:
		return theme.ColorMaintain
	default:
		return theme.ColorRecover
	}
}

// gaugeLoadMax keeps the load rings on a shared scale so their fills
// can be compared visually.
func gaugeLoadMax(values ...*float64) float64 {
	max := 100.0
	for _, v := range values {
		if v != nil && *v > max {
			max = *v
		}
	}
	return max
}
