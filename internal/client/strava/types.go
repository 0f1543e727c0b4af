package strava

import (
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
)

type MetaAthlete struct {
	ID int64 `json:"id"`
}

type DetailedAthlete struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Firstname string     `json:"firstname"`
	Lastname  string     `json:"lastname"`
	Weight    *float64   `json:"weight,omitempty"`
	FTP       *float64   `json:"ftp,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type Zones struct {
	HeartRate *ZoneSet `json:"heart_rate,omitempty"`
	Power     *ZoneSet `json:"power,omitempty"`
}

type ZoneSet struct {
	CustomZones bool        `json:"custom_zones"`
	Zones       []ZoneRange `json:"zones"`
}

type ZoneRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SummaryActivity is the Strava representation of an activity. Only the
// fields the load engine and sync pipeline consume are mapped.
type SummaryActivity struct {
	ID             int64       `json:"id"`
	Athlete        MetaAthlete `json:"athlete"`
	Name           string      `json:"name"`
	SportType      string      `json:"sport_type"`
	StartDate      time.Time   `json:"start_date"`
	StartDateLocal time.Time   `json:"start_date_local"`
	MovingTime     int         `json:"moving_time"`
	ElapsedTime    int         `json:"elapsed_time"`
	Distance       float64     `json:"distance"`

	HasHeartrate     bool     `json:"has_heartrate"`
	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate     *float64 `json:"max_heartrate,omitempty"`

	DeviceWatts   bool     `json:"device_watts"`
	AverageWatts  *float64 `json:"average_watts,omitempty"`
	WeightedWatts *float64 `json:"weighted_average_watts,omitempty"`
}

// ToActivity converts to the engine's representation. Estimated (non
// device) power readings are dropped; they are too noisy for scoring.
func (a SummaryActivity) ToActivity() analytics.Activity {
	out := analytics.Activity{
		ID:             a.ID,
		AthleteID:      a.Athlete.ID,
		Name:           a.Name,
		SportType:      a.SportType,
		StartDateLocal: a.StartDateLocal,
		MovingTimeSec:  a.MovingTime,
		ElapsedTimeSec: a.ElapsedTime,
		HasHeartRate:   a.HasHeartrate,
	}

	if a.HasHeartrate {
		out.AverageHeartRate = a.AverageHeartrate
		out.MaxHeartRate = a.MaxHeartrate
	}
	if a.DeviceWatts {
		out.AveragePower = a.AverageWatts
		out.WeightedPower = a.WeightedWatts
	}

	return out
}
