package analytics

import "math"

const (
	// DefaultMaxHeartRate is used when no activity reports a max heart rate.
	DefaultMaxHeartRate = 190.0

	// DefaultRestingHeartRate is always defaulted; no activity field
	// carries resting heart rate.
	DefaultRestingHeartRate = 60.0

	// ftpEstimateFactor discounts the best observed sustained power down
	// to a functional threshold estimate.
	ftpEstimateFactor = 0.95

	// ftpMinDurationSec is the minimum moving time for an activity's
	// power to count as "sustained" for FTP estimation.
	ftpMinDurationSec = 20 * 60
)

// AthleteThresholds holds the physiological reference values the
// calculator is configured with. Immutable once constructed.
type AthleteThresholds struct {
	MaxHeartRate     float64 `json:"max_heart_rate"`
	RestingHeartRate float64 `json:"resting_heart_rate"`

	// FTP is absent (nil) when the athlete has no power history.
	// Callers must treat nil as unknown, never as zero.
	FTP *float64 `json:"ftp,omitempty"`

	// ThresholdPace in meters per second, when known.
	ThresholdPace *float64 `json:"threshold_pace,omitempty"`
}

// EstimateThresholds derives reference values from historical activities.
// It is total: any input, including an empty slice, yields a usable value.
func EstimateThresholds(activities []Activity) AthleteThresholds {
	t := AthleteThresholds{
		MaxHeartRate:     DefaultMaxHeartRate,
		RestingHeartRate: DefaultRestingHeartRate,
	}

	var bestMaxHR float64
	for _, a := range activities {
		if a.MaxHeartRate != nil && *a.MaxHeartRate > bestMaxHR {
			bestMaxHR = *a.MaxHeartRate
		}
	}
	if bestMaxHR > 0 {
		t.MaxHeartRate = bestMaxHR
	}

	// FTP only when at least one activity reports power. Prefer sustained
	// efforts; fall back to the best short effort with a deeper discount.
	var bestSustained, bestAny float64
	for _, a := range activities {
		watts, ok := a.power()
		if !ok {
			continue
		}
		if watts > bestAny {
			bestAny = watts
		}
		if a.MovingTimeSec >= ftpMinDurationSec && watts > bestSustained {
			bestSustained = watts
		}
	}
	switch {
	case bestSustained > 0:
		ftp := math.Round(bestSustained * ftpEstimateFactor)
		t.FTP = &ftp
	case bestAny > 0:
		ftp := math.Round(bestAny * 0.75)
		t.FTP = &ftp
	}

	return t
}

func (t AthleteThresholds) heartRateReserve() float64 {
	return t.MaxHeartRate - t.RestingHeartRate
}
