package gauge

import (
	"math"

	drawille "github.com/exrook/drawille-go"
)

const (
	// arc parameters (degrees)
	// screen coords: 0°=right(3 o'clock), 90°=down(6 o'clock), 180°=left(9 o'clock), 270°=up(12 o'clock)
	// start at top (12 o'clock = 270°), fill clockwise (increasing angle)
	arcStartAngle = 270.0
	arcSweep      = 360.0
	arcThickness  = 5
)

// drawArc draws a thick arc from startAngle sweeping through sweepAngle
// degrees, using the midpoint circle algorithm so the ring stays gap-free.
func drawArc(canvas *drawille.Canvas, centerX, centerY, radius float64, startAngle, sweepAngle float64) {
	endAngle := startAngle + sweepAngle

	for t := range arcThickness {
		r := int(radius) - t
		if r <= 0 {
			continue
		}
		midpointCircleArc(canvas, int(centerX), int(centerY), r, startAngle, endAngle)
	}
}

func midpointCircleArc(canvas *drawille.Canvas, cx, cy, radius int, startAngle, endAngle float64) {
	x := radius
	y := 0
	d := 1 - radius // decision parameter

	for x >= y {
		drawOctantPoints(canvas, cx, cy, x, y, startAngle, endAngle)

		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// drawOctantPoints draws the 8 symmetric circle points that fall within
// the angle range.
func drawOctantPoints(canvas *drawille.Canvas, cx, cy, x, y int, startAngle, endAngle float64) {
	points := [][2]int{
		{cx + x, cy - y},
		{cx + y, cy - x},
		{cx - y, cy - x},
		{cx - x, cy - y},
		{cx - x, cy + y},
		{cx - y, cy + x},
		{cx + y, cy + x},
		{cx + x, cy + y},
	}

	for _, p := range points {
		if isInArcRange(cx, cy, p[0], p[1], startAngle, endAngle) {
			canvas.Set(p[0], p[1])
		}
	}
}

// isInArcRange checks if a point's angle from center falls within
// [startAngle, endAngle], handling sweeps that wrap past 360°.
func isInArcRange(cx, cy, px, py int, startAngle, endAngle float64) bool {
	// Y increases downward in screen coords, so (py-cy) is used directly.
	dx := float64(px - cx)
	dy := float64(py - cy)

	angle := math.Atan2(dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}

	if endAngle > 360 {
		// arc wraps around: angle >= start OR angle <= (end - 360)
		if angle >= startAngle || angle <= (endAngle-360) {
			return true
		}
	} else {
		if angle >= startAngle && angle <= endAngle {
			return true
		}
	}

	return false
}

func drawFullArc(canvas *drawille.Canvas, centerX, centerY, radius float64) {
	drawArc(canvas, centerX, centerY, radius, arcStartAngle, arcSweep)
}

func drawFilledArc(canvas *drawille.Canvas, centerX, centerY, radius float64, fillPercent float64) {
	if fillPercent <= 0 {
		return
	}
	if fillPercent > 1 {
		fillPercent = 1
	}
	drawArc(canvas, centerX, centerY, radius, arcStartAngle, fillPercent*arcSweep)
}
