package analytics

import "time"

const (
	acuteWindowDays   = 7
	chronicWindowDays = 28

	// minChronicBase is the chronic load below which the athlete is
	// treated as having no meaningful baseline yet.
	minChronicBase = 10.0

	// Acute:chronic balance bands. Literature places the training sweet
	// spot around 0.8-1.3 with injury risk climbing past ~1.5.
	peakBalance     = 1.5
	buildBalance    = 1.15
	maintainBalance = 0.8
)

// TrainingStatus is the discrete classification of the athlete's current
// training state.
type TrainingStatus string

const (
	StatusPeak     TrainingStatus = "peak"
	StatusMaintain TrainingStatus = "maintain"
	StatusBuild    TrainingStatus = "build"
	StatusRecover  TrainingStatus = "recover"
)

// TrainingLoadMetrics summarizes a LoadPoint sequence: rolling windows,
// their ratio, week-over-week ramp, and a coaching classification.
type TrainingLoadMetrics struct {
	AcuteLoad      float64        `json:"acute_load"`
	ChronicLoad    float64        `json:"chronic_load"`
	Balance        float64        `json:"balance"`
	RampRate       float64        `json:"ramp_rate"`
	Status         TrainingStatus `json:"status"`
	Recommendation string         `json:"recommendation"`
}

// LoadMetrics computes rolling load metrics over an ordered LoadPoint
// sequence. Total over any input length; gaps between points count as
// zero-load days, not skipped days.
func (c *Calculator) LoadMetrics(points []LoadPoint) TrainingLoadMetrics {
	if len(points) == 0 {
		return TrainingLoadMetrics{
			Status:         StatusRecover,
			Recommendation: "No training history yet. Log a few workouts to start building load.",
		}
	}

	daily := dailySeries(points)

	acute := trailingAverage(daily, acuteWindowDays)
	chronic := trailingAverage(daily, chronicWindowDays)

	var balance float64
	if chronic > 0 {
		balance = acute / chronic
	}

	ramp := rampRate(daily)

	status, recommendation := classify(acute, chronic, balance)

	return TrainingLoadMetrics{
		AcuteLoad:      acute,
		ChronicLoad:    chronic,
		Balance:        balance,
		RampRate:       ramp,
		Status:         status,
		Recommendation: recommendation,
	}
}

// dailySeries expands the points onto a contiguous per-day array from the
// first to the last date, using the day's TSS as the load currency.
func dailySeries(points []LoadPoint) []float64 {
	first := points[0].Date
	last := points[len(points)-1].Date

	days := daysBetween(first, last) + 1
	series := make([]float64, days)
	for _, p := range points {
		idx := daysBetween(first, p.Date)
		if idx >= 0 && idx < days {
			series[idx] += p.TSS
		}
	}
	return series
}

// trailingAverage averages the last window days of the series. When the
// series is shorter than the window, the divisor shrinks to the observed
// span so a young history is not diluted to near zero.
func trailingAverage(series []float64, window int) float64 {
	n := len(series)
	if n == 0 {
		return 0
	}
	if window > n {
		window = n
	}

	var sum float64
	for _, v := range series[n-window:] {
		sum += v
	}
	return sum / float64(window)
}

// rampRate is the percentage change of the most recent 7 days against the
// 7 days before them.
func rampRate(series []float64) float64 {
	n := len(series)

	var recent, prior float64
	for i := n - 1; i >= 0 && i >= n-acuteWindowDays; i-- {
		recent += series[i]
	}
	for i := n - acuteWindowDays - 1; i >= 0 && i >= n-2*acuteWindowDays; i-- {
		prior += series[i]
	}

	if prior <= 0 {
		return 0
	}
	return (recent - prior) / prior * 100
}

func classify(acute, chronic, balance float64) (TrainingStatus, string) {
	switch {
	case chronic < minChronicBase && acute < minChronicBase:
		return StatusRecover, "Training load is low. Ease back in with short, easy sessions."
	case balance >= peakBalance:
		return StatusPeak, "Load is well above your chronic baseline. Absorb the work: favor recovery and easy days."
	case balance >= buildBalance:
		return StatusBuild, "Load is rising at a sustainable rate. Keep progressing, and watch for fatigue."
	case balance >= maintainBalance:
		return StatusMaintain, "Load is balanced against your baseline. Hold this rhythm or add a focused quality session."
	default:
		return StatusRecover, "Recent load is well below your baseline. Rebuild gradually before adding intensity."
	}
}

func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
