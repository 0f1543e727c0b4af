package handler

import (
	"errors"
	"net/http"

	"github.com/pulsecoach/pulse/internal/service/load"
	"github.com/pulsecoach/pulse/internal/xerrors"
	"github.com/pulsecoach/pulse/internal/xhttp"
)

type Load struct {
	service load.Service
}

func NewLoad(service load.Service) *Load {
	return &Load{service: service}
}

// HandlePoints handles GET /v1/athletes/{id}/load/points requests.
func (h *Load) HandlePoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	athleteID, err := athleteIDFromPath(r)
	if err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	days := load.ClampWindow(queryInt(r, "days", load.DefaultWindowDays))

	points, err := h.service.Points(ctx, athleteID, days)
	if err != nil {
		xerrors.WriteError(ctx, w, mapLoadErr(err))
		return
	}

	xhttp.WriteOK(w, points)
}

// HandleMetrics handles GET /v1/athletes/{id}/load/metrics requests.
func (h *Load) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	athleteID, err := athleteIDFromPath(r)
	if err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	days := load.ClampWindow(queryInt(r, "days", load.DefaultWindowDays))

	metrics, err := h.service.Metrics(ctx, athleteID, days)
	if err != nil {
		xerrors.WriteError(ctx, w, mapLoadErr(err))
		return
	}

	xhttp.WriteOK(w, metrics)
}

// HandleThresholds handles GET /v1/athletes/{id}/thresholds requests.
func (h *Load) HandleThresholds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	athleteID, err := athleteIDFromPath(r)
	if err != nil {
		xerrors.WriteError(ctx, w, err)
		return
	}

	thresholds, err := h.service.Thresholds(ctx, athleteID)
	if err != nil {
		xerrors.WriteError(ctx, w, mapLoadErr(err))
		return
	}

	xhttp.WriteOK(w, thresholds)
}

func mapLoadErr(err error) error {
	if errors.Is(err, load.ErrAthleteNotFound) {
		return xerrors.NotFound(xerrors.WithMessage("athlete not found"))
	}
	return xerrors.Internal(xerrors.WithCause(err))
}
