package strava

import "context"

type AthleteService interface {
	GetAuthenticated(ctx context.Context) (*DetailedAthlete, error)
	GetZones(ctx context.Context) (*Zones, error)
}

type ActivityService interface {
	Get(ctx context.Context, id int64) (*SummaryActivity, error)
	List(ctx context.Context, params *ListParams) ([]SummaryActivity, error)
}
