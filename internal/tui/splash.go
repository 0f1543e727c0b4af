package tui

import "charm.land/lipgloss/v2"

type SplashState struct{}

func (m *Model) SplashView() string {
	tagline := m.theme.TextDim().Render("training load, at a glance")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		m.LogoView(),
		"",
		tagline,
	)
}
