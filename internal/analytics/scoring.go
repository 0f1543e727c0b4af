package analytics

import "math"

const (
	// banisterExp is the exponential weighting factor for the TRIMP
	// heart-rate reserve curve (Banister, male coefficient).
	banisterExp = 1.92

	// hourThresholdTRIMP is the TRIMP of one hour at threshold effort
	// (60 * e^1.92). It anchors the heart-rate TSS scale so that hour
	// scores roughly 100.
	hourThresholdTRIMP = 409.5

	// fallbackFTP scales power-based TSS when the athlete's functional
	// threshold power is unknown.
	fallbackFTP = 200.0

	// trimpNormalizeDivisor maps TRIMP onto the 0-100 normalized load
	// band. A hard aerobic hour (~250 TRIMP) saturates it.
	trimpNormalizeDivisor = 2.5
)

// Calculator scores activities against a fixed set of athlete thresholds.
// It holds no other state and is safe for concurrent use.
type Calculator struct {
	thresholds AthleteThresholds
}

func NewCalculator(thresholds AthleteThresholds) *Calculator {
	return &Calculator{thresholds: thresholds}
}

func (c *Calculator) Thresholds() AthleteThresholds {
	return c.thresholds
}

// ScoringInput is the resolved scoring path for one activity. Power is
// preferred over heart rate when both are recorded; the two paths are
// never blended.
type ScoringInput interface {
	isScoringInput()
}

// PowerBased scores from recorded power.
type PowerBased struct {
	Watts float64
}

// HeartRateBased scores from average heart rate.
type HeartRateBased struct {
	AverageHR float64
}

// Unscoreable carries no usable physiology; every score is zero.
type Unscoreable struct{}

func (PowerBased) isScoringInput()     {}
func (HeartRateBased) isScoringInput() {}
func (Unscoreable) isScoringInput()    {}

// ResolveScoringInput picks the scoring path for an activity.
func ResolveScoringInput(a Activity) ScoringInput {
	if watts, ok := a.power(); ok {
		return PowerBased{Watts: watts}
	}
	if hr, ok := a.heartRate(); ok {
		return HeartRateBased{AverageHR: hr}
	}
	return Unscoreable{}
}

// TRIMP computes the Banister training impulse for one activity.
// Activities without heart-rate data score exactly zero.
func (c *Calculator) TRIMP(a Activity) float64 {
	hr, ok := a.heartRate()
	if !ok {
		return 0
	}

	reserve := c.thresholds.heartRateReserve()
	if reserve <= 0 {
		return 0
	}

	ratio := (hr - c.thresholds.RestingHeartRate) / reserve
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	return a.movingMinutes() * ratio * math.Exp(banisterExp*ratio) * sportFactor(a.SportType)
}

// TSS computes the training stress score for one activity, preferring the
// power path when power data exists.
func (c *Calculator) TSS(a Activity) float64 {
	switch input := ResolveScoringInput(a).(type) {
	case PowerBased:
		return c.powerTSS(a, input.Watts)
	case HeartRateBased:
		return c.heartRateTSS(a)
	case Unscoreable:
		return 0
	default:
		return 0
	}
}

// powerTSS follows the classic formula: (sec * NP * IF) / (FTP * 3600) * 100.
func (c *Calculator) powerTSS(a Activity, watts float64) float64 {
	ftp := fallbackFTP
	if c.thresholds.FTP != nil && *c.thresholds.FTP > 0 {
		ftp = *c.thresholds.FTP
	}

	intensity := watts / ftp
	return (float64(a.MovingTimeSec) * watts * intensity) / (ftp * 3600) * 100
}

// heartRateTSS reuses the TRIMP curve, renormalized so an hour at
// threshold effort lands near 100.
func (c *Calculator) heartRateTSS(a Activity) float64 {
	return c.TRIMP(a) / hourThresholdTRIMP * 100
}

// NormalizedLoad collapses whichever of TRIMP/TSS are computable into a
// single 0-100 scalar. Activities with no physiology score zero.
func (c *Calculator) NormalizedLoad(a Activity) float64 {
	trimp := c.TRIMP(a)
	tss := c.TSS(a)

	var raw float64
	switch {
	case trimp > 0 && tss > 0:
		raw = (trimp/trimpNormalizeDivisor + tss) / 2
	case trimp > 0:
		raw = trimp / trimpNormalizeDivisor
	default:
		raw = tss
	}

	return clamp(raw, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
