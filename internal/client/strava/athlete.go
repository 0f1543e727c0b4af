package strava

import (
	"context"
	"net/http"
)

type athleteService struct {
	client *Client
}

func (s *athleteService) GetAuthenticated(ctx context.Context) (*DetailedAthlete, error) {
	const route = "/athlete"

	var athlete DetailedAthlete
	if err := s.client.do(ctx, http.MethodGet, route, nil, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}

func (s *athleteService) GetZones(ctx context.Context) (*Zones, error) {
	const route = "/athlete/zones"

	var zones Zones
	if err := s.client.do(ctx, http.MethodGet, route, nil, &zones); err != nil {
		return nil, err
	}
	return &zones, nil
}
