package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/repository"
	"github.com/pulsecoach/pulse/internal/xerrors"
	"github.com/pulsecoach/pulse/internal/xhttp"
)

const maxIngestBatch = 500

type Activities struct {
	repo *repository.Repository
}

func NewActivities(repo *repository.Repository) *Activities {
	return &Activities{repo: repo}
}

type activityPayload struct {
	ID             int64     `json:"id"`
	AthleteID      int64     `json:"athlete_id"`
	Name           string    `json:"name"`
	SportType      string    `json:"sport_type"`
	StartDateLocal time.Time `json:"start_date_local"`
	MovingTimeSec  int       `json:"moving_time_sec"`
	ElapsedTimeSec int       `json:"elapsed_time_sec"`

	HasHeartRate     bool     `json:"has_heartrate"`
	AverageHeartRate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartRate     *float64 `json:"max_heartrate,omitempty"`
	AveragePower     *float64 `json:"average_watts,omitempty"`
	WeightedPower    *float64 `json:"weighted_average_watts,omitempty"`
}

func (p activityPayload) validate() map[string]string {
	fields := make(map[string]string)
	if p.ID <= 0 {
		fields["id"] = "must be positive"
	}
	if p.AthleteID <= 0 {
		fields["athlete_id"] = "must be positive"
	}
	if p.SportType == "" {
		fields["sport_type"] = "is required"
	}
	if p.StartDateLocal.IsZero() {
		fields["start_date_local"] = "is required"
	}
	if p.MovingTimeSec < 0 {
		fields["moving_time_sec"] = "must not be negative"
	}
	if p.ElapsedTimeSec < 0 {
		fields["elapsed_time_sec"] = "must not be negative"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (p activityPayload) toActivity() analytics.Activity {
	return analytics.Activity{
		ID:               p.ID,
		AthleteID:        p.AthleteID,
		Name:             p.Name,
		SportType:        p.SportType,
		StartDateLocal:   p.StartDateLocal,
		MovingTimeSec:    p.MovingTimeSec,
		ElapsedTimeSec:   p.ElapsedTimeSec,
		HasHeartRate:     p.HasHeartRate,
		AverageHeartRate: p.AverageHeartRate,
		MaxHeartRate:     p.MaxHeartRate,
		AveragePower:     p.AveragePower,
		WeightedPower:    p.WeightedPower,
	}
}

// HandleIngest handles POST /v1/activities requests.
func (h *Activities) HandleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payloads []activityPayload
	if err := go_json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(
			xerrors.WithMessage("invalid request body"),
			xerrors.WithCause(err),
		))
		return
	}

	if len(payloads) == 0 {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("empty activity batch")))
		return
	}
	if len(payloads) > maxIngestBatch {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(
			xerrors.WithMessage(fmt.Sprintf("batch exceeds %d activities", maxIngestBatch)),
		))
		return
	}

	activities := make([]analytics.Activity, 0, len(payloads))
	for i, p := range payloads {
		if fields := p.validate(); fields != nil {
			xerrors.WriteError(ctx, w, xerrors.Validation(fields,
				xerrors.WithMessage(fmt.Sprintf("invalid activity at index %d", i)),
			))
			return
		}
		activities = append(activities, p.toActivity())
	}

	if err := h.repo.Activities.UpsertBatch(ctx, activities); err != nil {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(err)))
		return
	}

	xhttp.WriteNoContent(w)
}

type activityListResponse struct {
	Records    []activityPayload `json:"records"`
	NextCursor *time.Time        `json:"next_cursor,omitempty"`
}

// HandleList handles GET /v1/athletes/{id}/activities requests.
func (h *Activities) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	athleteID, err := athleteIDFromPath(r)
	if err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	days := queryInt(r, "days", 90)
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	cursor := &repository.CursorParams{Limit: queryInt(r, "limit", repository.DefaultPageSize)}
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("invalid cursor")))
			return
		}
		cursor.Cursor = &t
	}

	result, err := h.repo.Activities.ListByAthletePage(ctx, athleteID, start, end, cursor)
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(err)))
		return
	}

	resp := activityListResponse{
		Records:    make([]activityPayload, 0, len(result.Records)),
		NextCursor: result.NextCursor,
	}
	for _, a := range result.Records {
		resp.Records = append(resp.Records, toPayload(a))
	}

	xhttp.WriteOK(w, resp)
}

func toPayload(a analytics.Activity) activityPayload {
	return activityPayload{
		ID:               a.ID,
		AthleteID:        a.AthleteID,
		Name:             a.Name,
		SportType:        a.SportType,
		StartDateLocal:   a.StartDateLocal,
		MovingTimeSec:    a.MovingTimeSec,
		ElapsedTimeSec:   a.ElapsedTimeSec,
		HasHeartRate:     a.HasHeartRate,
		AverageHeartRate: a.AverageHeartRate,
		MaxHeartRate:     a.MaxHeartRate,
		AveragePower:     a.AveragePower,
		WeightedPower:    a.WeightedPower,
	}
}

func athleteIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, xerrors.BadRequest(xerrors.WithMessage("invalid athlete id"))
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
