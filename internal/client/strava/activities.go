package strava

import (
	"context"
	"net/http"
	"strconv"
)

type activityService struct {
	client *Client
}

func (s *activityService) Get(ctx context.Context, id int64) (*SummaryActivity, error) {
	const route = "/activities"
	path := route + "/" + strconv.FormatInt(id, 10)

	var activity SummaryActivity
	if err := s.client.do(ctx, http.MethodGet, path, nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *activityService) List(ctx context.Context, params *ListParams) ([]SummaryActivity, error) {
	const route = "/athlete/activities"

	var activities []SummaryActivity
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
