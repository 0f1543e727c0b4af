package gauge

import (
	"fmt"
	"image/color"
	"strings"
	"unicode"

	drawille "github.com/exrook/drawille-go"

	"charm.land/lipgloss/v2"

	"github.com/pulsecoach/pulse/internal/tui/theme"
)

const (
	// gauge dimensions in braille dots (2 dots per char width, 4 dots per
	// char height), large enough to leave a hollow center for the value
	gaugeDotsWidth  = 52 // 26 chars wide
	gaugeDotsHeight = 52 // 13 chars tall
)

// Gauge is a circular progress ring with the value printed in the center.
type Gauge struct {
	Value     *float64 // nil = no data
	Max       float64  // full-ring value
	Label     string
	Color     color.Color                // filled portion
	BgColor   color.Color                // unfilled portion
	TextColor color.Color                // center value
	Format    func(value float64) string // nil defaults to "%.0f"
}

type Option func(*Gauge)

func WithBgColor(c color.Color) Option {
	return func(g *Gauge) {
		g.BgColor = c
	}
}

func WithTextColor(c color.Color) Option {
	return func(g *Gauge) {
		g.TextColor = c
	}
}

// WithFormat overrides how the center value is printed, e.g. two decimal
// places for ratios.
func WithFormat(format func(float64) string) Option {
	return func(g *Gauge) {
		g.Format = format
	}
}

func New(value *float64, max float64, label string, c color.Color, opts ...Option) Gauge {
	g := Gauge{
		Value:     value,
		Max:       max,
		Label:     label,
		Color:     c,
		BgColor:   theme.ColorBgLight,
		TextColor: theme.ColorWhite,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func (g Gauge) Render() string {
	canvas := drawille.NewCanvas()

	var (
		centerX = float64(gaugeDotsWidth) / 2
		centerY = float64(gaugeDotsHeight) / 2
		radius  = float64(gaugeDotsWidth)/2 - 1
	)

	var fraction float64
	if g.Value != nil && g.Max > 0 {
		fraction = *g.Value / g.Max
		if fraction > 1 {
			fraction = 1
		}
		if fraction < 0 {
			fraction = 0
		}
	}

	// background ring first, then the filled sweep on a cleared canvas
	drawFullArc(&canvas, centerX, centerY, radius)
	bgArcStr := canvasString(&canvas, gaugeDotsWidth, gaugeDotsHeight)

	canvas.Clear()
	if fraction > 0 {
		drawFilledArc(&canvas, centerX, centerY, radius, fraction)
	}
	filledArcStr := canvasString(&canvas, gaugeDotsWidth, gaugeDotsHeight)

	combinedArc := overlayArcsRaw(bgArcStr, filledArcStr, g.BgColor, g.Color)

	valueStyle := lipgloss.NewStyle().
		Foreground(g.TextColor).
		Bold(true)

	var (
		arcHeight = lipgloss.Height(combinedArc)
		arcWidth  = lipgloss.Width(combinedArc)
	)

	styledValue := valueStyle.Render(g.valueText())
	centeredValue := lipgloss.Place(
		arcWidth,
		arcHeight,
		lipgloss.Center,
		lipgloss.Center,
		styledValue,
	)

	combined := overlayWithBackground(combinedArc, centeredValue)

	labelStyle := lipgloss.NewStyle().
		Foreground(g.TextColor).
		Bold(true).
		Width(arcWidth).
		Align(lipgloss.Center)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		combined,
		labelStyle.Render(g.Label),
	)
}

func (g Gauge) valueText() string {
	if g.Value == nil {
		return "--"
	}
	if g.Format != nil {
		return g.Format(*g.Value)
	}
	return fmt.Sprintf("%.0f", *g.Value)
}

// canvasString extracts the canvas as a string with consistent dimensions.
func canvasString(canvas *drawille.Canvas, width, height int) string {
	// each braille char is 2 dots wide, 4 dots tall
	charWidth := width / 2
	charHeight := height / 4

	rows := canvas.Rows(0, 0, width, height)

	var lines []string
	for i := range charHeight {
		if i < len(rows) {
			// pad or truncate to exact width
			line := rows[i]
			runeCount := len([]rune(line))
			if runeCount < charWidth {
				line += strings.Repeat(" ", charWidth-runeCount)
			} else if runeCount > charWidth {
				line = string([]rune(line)[:charWidth])
			}
			lines = append(lines, line)
		} else {
			lines = append(lines, strings.Repeat(" ", charWidth))
		}
	}

	return strings.Join(lines, "\n")
}

const (
	emptyBraille rune = '⠀'
	ansiEscape   rune = '\x1b'
)

// overlayArcsRaw combines background and filled arcs with their respective
// colors. Braille dots are ORed together so the filled arc sits on top of
// the background ring.
func overlayArcsRaw(bgStr, fillStr string, bgColor, fillColor color.Color) string {
	var (
		bgLines   = strings.Split(bgStr, "\n")
		fillLines = strings.Split(fillStr, "\n")
		result    []string
		bgStyle   = lipgloss.NewStyle().Foreground(bgColor)
		fillStyle = lipgloss.NewStyle().Foreground(fillColor)
	)

	for i := range len(bgLines) {
		bgRunes := []rune(bgLines[i])
		var fillRunes []rune
		if i < len(fillLines) {
			fillRunes = []rune(fillLines[i])
		}

		var lineBuilder strings.Builder
		for j := range len(bgRunes) {
			bgChar := bgRunes[j]
			fillChar := ' '
			if j < len(fillRunes) {
				fillChar = fillRunes[j]
			}

			bgIsBraille := isBraille(bgChar)
			// fill counts only when it has actual dots, not empty braille
			fillHasDots := isBraille(fillChar) && fillChar != emptyBraille

			if fillHasDots && bgIsBraille {
				combined := combineBraille(bgChar, fillChar)
				lineBuilder.WriteString(fillStyle.Render(string(combined)))
			} else if fillHasDots {
				lineBuilder.WriteString(fillStyle.Render(string(fillChar)))
			} else if bgIsBraille {
				lineBuilder.WriteString(bgStyle.Render(string(bgChar)))
			} else {
				lineBuilder.WriteRune(' ')
			}
		}
		result = append(result, lineBuilder.String())
	}

	return strings.Join(result, "\n")
}

// isBraille returns true if the rune is a braille character (U+2800 to U+28FF)
func isBraille(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}

// combineBraille ORs the dots of two braille characters together
func combineBraille(a, b rune) rune {
	patternA := a - emptyBraille
	patternB := b - emptyBraille
	return emptyBraille + (patternA | patternB)
}

// overlayWithBackground overlays the centered value on the ring, preserving
// the arc on either side of it.
func overlayWithBackground(background, foreground string) string {
	var (
		bgLines  = strings.Split(background, "\n")
		fgLines  = strings.Split(foreground, "\n")
		maxLines = max(len(bgLines), len(fgLines))
		result   = make([]string, maxLines)
	)

	for i := range maxLines {
		var (
			bgLine string
			fgLine string
		)
		if i < len(bgLines) {
			bgLine = bgLines[i]
		}
		if i < len(fgLines) {
			fgLine = fgLines[i]
		}

		fgVisible := stripAnsi(fgLine)
		fgStart := -1
		fgEnd := -1
		for idx, r := range []rune(fgVisible) {
			if r != ' ' {
				if fgStart == -1 {
					fgStart = idx
				}
				fgEnd = idx + 1
			}
		}

		if fgStart == -1 {
			result[i] = bgLine
			continue
		}

		fgContent := extractStyledSegment(fgLine, fgStart, fgEnd)

		// build result: bg left + fg center + bg right, keeping the
		// per-character ANSI styling of the background segments
		bgVisible := stripAnsi(bgLine)
		bgRunes := []rune(bgVisible)

		var lineBuilder strings.Builder

		leftEnd := min(fgStart, len(bgRunes))
		lineBuilder.WriteString(extractStyledSegment(bgLine, 0, leftEnd))

		for j := len(bgRunes); j < fgStart; j++ {
			lineBuilder.WriteRune(' ')
		}

		lineBuilder.WriteString(fgContent)

		if fgEnd < len(bgRunes) {
			lineBuilder.WriteString(extractStyledSegment(bgLine, fgEnd, len(bgRunes)))
		}

		result[i] = lineBuilder.String()
	}

	return strings.Join(result, "\n")
}

// extractStyledSegment extracts visible characters from start to end
// position while preserving the ANSI styling attached to them.
func extractStyledSegment(styledStr string, start, end int) string {
	var (
		result         strings.Builder
		visibleIdx     = 0
		inEscape       = false
		pendingEscapes strings.Builder // all escapes since the last character
	)

	for _, r := range styledStr {
		if r == ansiEscape {
			inEscape = true
			pendingEscapes.WriteRune(r)
			continue
		}

		if inEscape {
			pendingEscapes.WriteRune(r)
			if unicode.IsLetter(r) {
				inEscape = false
			}
			continue
		}

		if visibleIdx >= start && visibleIdx < end {
			if pendingEscapes.Len() > 0 {
				result.WriteString(pendingEscapes.String())
			}
			result.WriteRune(r)
		}
		pendingEscapes.Reset()
		visibleIdx++
	}

	return result.String()
}

// stripAnsi removes ANSI escape sequences from a string.
func stripAnsi(s string) string {
	var (
		result   strings.Builder
		inEscape = false
	)

	for _, r := range s {
		if r == ansiEscape {
			inEscape = true
			continue
		}
		if inEscape {
			if unicode.IsLetter(r) {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
