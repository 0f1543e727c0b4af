package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	go_json "github.com/goccy/go-json"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/service/load"
)

type fakeLoadService struct {
	points     []analytics.LoadPoint
	metrics    *analytics.TrainingLoadMetrics
	thresholds analytics.AthleteThresholds
	err        error
}

var _ load.Service = (*fakeLoadService)(nil)

func (f *fakeLoadService) Points(context.Context, int64, int) ([]analytics.LoadPoint, error) {
	return f.points, f.err
}

func (f *fakeLoadService) Metrics(context.Context, int64, int) (*analytics.TrainingLoadMetrics, error) {
	return f.metrics, f.err
}

func (f *fakeLoadService) Thresholds(context.Context, int64) (analytics.AthleteThresholds, error) {
	return f.thresholds, f.err
}

func loadMux(svc load.Service) *http.ServeMux {
	h := NewLoad(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/athletes/{id}/load/points", h.HandlePoints)
	mux.HandleFunc("GET /v1/athletes/{id}/load/metrics", h.HandleMetrics)
	mux.HandleFunc("GET /v1/athletes/{id}/thresholds", h.HandleThresholds)
	return mux
}

func TestHandleMetrics(t *testing.T) {
	t.Parallel()

	svc := &fakeLoadService{
		metrics: &analytics.TrainingLoadMetrics{
			AcuteLoad:      60,
			ChronicLoad:    40,
			Balance:        1.5,
			Status:         analytics.StatusPeak,
			Recommendation: "Load is spiking.",
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/athletes/7/load/metrics?days=60", nil)
	rec := httptest.NewRecorder()
	loadMux(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var got analytics.TrainingLoadMetrics
	if err := go_json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.Status != analytics.StatusPeak || got.Balance != 1.5 {
		t.Errorf("got %+v, want peak at balance 1.5", got)
	}
}

func TestHandleMetricsAthleteNotFound(t *testing.T) {
	t.Parallel()

	svc := &fakeLoadService{err: load.ErrAthleteNotFound}

	req := httptest.NewRequest(http.MethodGet, "/v1/athletes/999/load/metrics", nil)
	rec := httptest.NewRecorder()
	loadMux(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePointsInvalidAthleteID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		path string
	}{
		{name: "non-numeric", path: "/v1/athletes/abc/load/points"},
		{name: "zero", path: "/v1/athletes/0/load/points"},
		{name: "negative", path: "/v1/athletes/-3/load/points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			loadMux(&fakeLoadService{}).ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandlePoints(t *testing.T) {
	t.Parallel()

	svc := &fakeLoadService{
		points: []analytics.LoadPoint{
			{TSS: 72.5, TRIMP: 120, NormalizedLoad: 53},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/athletes/7/load/points", nil)
	rec := httptest.NewRecorder()
	loadMux(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"tss":72.5`) {
		t.Errorf("body missing tss field: %s", rec.Body.String())
	}
}

func TestHandleThresholds(t *testing.T) {
	t.Parallel()

	ftp := 250.0
	svc := &fakeLoadService{
		thresholds: analytics.AthleteThresholds{
			MaxHeartRate:     188,
			RestingHeartRate: 52,
			FTP:              &ftp,
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/athletes/7/thresholds", nil)
	rec := httptest.NewRecorder()
	loadMux(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got analytics.AthleteThresholds
	if err := go_json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.MaxHeartRate != 188 || got.FTP == nil || *got.FTP != 250 {
		t.Errorf("got %+v, want thresholds back", got)
	}
}
