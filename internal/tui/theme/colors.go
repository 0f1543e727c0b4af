package theme

import "charm.land/lipgloss/v2"

var (
	ColorBlack = lipgloss.Color("#000000")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
)

var (
	ColorAccent  = lipgloss.Color("#FF4F00") // CTA, highlights, the splash logo
	ColorAcute   = lipgloss.Color("#FF8A3D") // 7-day load
	ColorChronic = lipgloss.Color("#3D9BE9") // 28-day load
	ColorNeutral = lipgloss.Color("#7BA1BB") // balance without a classification

	ColorPeak     = lipgloss.Color("#FF0026") // balance >= 1.5, overreaching
	ColorBuild    = lipgloss.Color("#16EC06") // productive overload
	ColorMaintain = lipgloss.Color("#FFDE00") // holding steady
	ColorRecover  = lipgloss.Color("#67AEE6") // detraining or resting
)

var (
	ColorBgDark  = lipgloss.Color("#12161A") // darker end of gradient
	ColorBgLight = lipgloss.Color("#2A343B") // lighter end of gradient
)
