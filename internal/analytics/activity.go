package analytics

import "time"

// Activity is a single recorded workout, as consumed by the engine.
// Optional physiological fields are pointers; absence degrades scoring
// rather than erroring.
type Activity struct {
	ID        int64
	AthleteID int64
	Name      string
	SportType string

	// StartDateLocal is the athlete-local start time. Daily grouping is
	// done on its calendar date, not the UTC date.
	StartDateLocal time.Time

	// MovingTimeSec is authoritative for load scoring.
	MovingTimeSec  int
	ElapsedTimeSec int

	HasHeartRate     bool
	AverageHeartRate *float64
	MaxHeartRate     *float64

	AveragePower  *float64
	WeightedPower *float64
}

// LocalDate returns the activity's start date truncated to day granularity
// in its own location.
func (a Activity) LocalDate() time.Time {
	y, m, d := a.StartDateLocal.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.StartDateLocal.Location())
}

func (a Activity) movingMinutes() float64 {
	return float64(a.MovingTimeSec) / 60.0
}

// heartRate returns the average heart rate and whether the activity
// carries usable heart-rate data. Both the flag and the numeric value
// must be present.
func (a Activity) heartRate() (float64, bool) {
	if !a.HasHeartRate || a.AverageHeartRate == nil || *a.AverageHeartRate <= 0 {
		return 0, false
	}
	return *a.AverageHeartRate, true
}

// power returns the best available power estimate, preferring
// weighted/normalized power over the plain average.
func (a Activity) power() (float64, bool) {
	if a.WeightedPower != nil && *a.WeightedPower > 0 {
		return *a.WeightedPower, true
	}
	if a.AveragePower != nil && *a.AveragePower > 0 {
		return *a.AveragePower, true
	}
	return 0, false
}
