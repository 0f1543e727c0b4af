package status

import (
	"charm.land/lipgloss/v2"

	"github.com/pulsecoach/pulse/internal/tui/theme"
)

const statusDot = "●"

// Indicator shows whether the CLI holds a valid Strava token.
type Indicator struct {
	Checked   bool
	Connected bool
}

func (i Indicator) Render() string {
	if !i.Checked {
		return lipgloss.NewStyle().
			Foreground(theme.ColorBgLight).
			Render(statusDot + " checking...")
	}

	if i.Connected {
		return lipgloss.NewStyle().
			Foreground(theme.ColorBuild).
			Render(statusDot + " connected")
	}

	return lipgloss.NewStyle().
		Foreground(theme.ColorPeak).
		Render(statusDot + " not connected")
}
