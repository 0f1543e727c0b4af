package load

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/repository"
	"github.com/pulsecoach/pulse/internal/storage"
)

func TestClampWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		days int
		want int
	}{
		{name: "zero falls back to default", days: 0, want: DefaultWindowDays},
		{name: "negative falls back to default", days: -5, want: DefaultWindowDays},
		{name: "in range passes through", days: 60, want: 60},
		{name: "max is allowed", days: MaxWindowDays, want: MaxWindowDays},
		{name: "above max is capped", days: 1000, want: MaxWindowDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampWindow(tt.days); got != tt.want {
				t.Errorf("ClampWindow(%d) = %d, want %d", tt.days, got, tt.want)
			}
		})
	}
}

type fakeAthletes struct {
	athlete *repository.Athlete
	err     error
	calls   int
}

func (f *fakeAthletes) Get(_ context.Context, _ int64) (*repository.Athlete, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.athlete, nil
}

func (f *fakeAthletes) Upsert(context.Context, *repository.Athlete) error { return nil }

func (f *fakeAthletes) UpdateThresholds(context.Context, int64, analytics.AthleteThresholds) error {
	return nil
}

type fakeActivities struct {
	activities []analytics.Activity
}

func (f *fakeActivities) ListByAthlete(context.Context, int64, time.Time, time.Time) ([]analytics.Activity, error) {
	return f.activities, nil
}

func (f *fakeActivities) Upsert(context.Context, *analytics.Activity) error      { return nil }
func (f *fakeActivities) UpsertBatch(context.Context, []analytics.Activity) error { return nil }
func (f *fakeActivities) Get(context.Context, int64) (*analytics.Activity, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeActivities) ListByAthletePage(context.Context, int64, time.Time, time.Time, *repository.CursorParams) (*repository.CursorResult[analytics.Activity], error) {
	return &repository.CursorResult[analytics.Activity]{}, nil
}

func (f *fakeActivities) LatestStart(context.Context, int64) (*time.Time, error) {
	return nil, nil
}

type fakeCache struct {
	entries  map[string]*analytics.TrainingLoadMetrics
	getErr   error
	setErr   error
	setCalls int
	lastKey  string
	lastTTL  time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*analytics.TrainingLoadMetrics{}}
}

func (f *fakeCache) GetMetrics(_ context.Context, key string) (*analytics.TrainingLoadMetrics, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if m, ok := f.entries[key]; ok {
		return m, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCache) SetMetrics(_ context.Context, key string, metrics *analytics.TrainingLoadMetrics, ttl time.Duration) error {
	f.setCalls++
	f.lastKey = key
	f.lastTTL = ttl
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = metrics
	return nil
}

func testService(athletes *fakeAthletes, activities *fakeActivities, cache *fakeCache) Service {
	repo := &repository.Repository{
		Athletes:   athletes,
		Activities: activities,
	}
	return NewService(repo, cache, slog.New(slog.DiscardHandler))
}

func recentHRActivities(n int) []analytics.Activity {
	hr := 150.0
	activities := make([]analytics.Activity, 0, n)
	for i := range n {
		activities = append(activities, analytics.Activity{
			ID:               int64(i + 1),
			AthleteID:        7,
			Name:             "Morning Run",
			SportType:        "Run",
			StartDateLocal:   time.Now().AddDate(0, 0, -(n - i)),
			MovingTimeSec:    3600,
			HasHeartRate:     true,
			AverageHeartRate: &hr,
		})
	}
	return activities
}

func TestMetricsCacheMissRecomputesAndWrites(t *testing.T) {
	t.Parallel()

	athletes := &fakeAthletes{athlete: &repository.Athlete{ID: 7}}
	cache := newFakeCache()
	svc := testService(athletes, &fakeActivities{activities: recentHRActivities(10)}, cache)

	metrics, err := svc.Metrics(context.Background(), 7, 30)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if metrics.AcuteLoad <= 0 {
		t.Errorf("acute load = %v, want > 0 for recent training", metrics.AcuteLoad)
	}

	if cache.setCalls != 1 {
		t.Fatalf("cache writes = %d, want 1", cache.setCalls)
	}
	if cache.lastKey != "athlete:7:days:30" {
		t.Errorf("cache key = %q, want athlete:7:days:30", cache.lastKey)
	}
	if cache.lastTTL != metricsTTL {
		t.Errorf("cache ttl = %v, want %v", cache.lastTTL, metricsTTL)
	}
}

func TestMetricsCacheHitSkipsRecompute(t *testing.T) {
	t.Parallel()

	athletes := &fakeAthletes{athlete: &repository.Athlete{ID: 7}}
	cache := newFakeCache()
	cache.entries["athlete:7:days:30"] = &analytics.TrainingLoadMetrics{
		AcuteLoad: 42,
		Status:    analytics.StatusMaintain,
	}
	svc := testService(athletes, &fakeActivities{}, cache)

	metrics, err := svc.Metrics(context.Background(), 7, 30)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if metrics.AcuteLoad != 42 {
		t.Errorf("acute load = %v, want cached 42", metrics.AcuteLoad)
	}
	if athletes.calls != 0 {
		t.Errorf("athlete lookups = %d, want 0 on cache hit", athletes.calls)
	}
	if cache.setCalls != 0 {
		t.Errorf("cache writes = %d, want 0 on cache hit", cache.setCalls)
	}
}

func TestMetricsCacheFailuresAreNonFatal(t *testing.T) {
	t.Parallel()

	athletes := &fakeAthletes{athlete: &repository.Athlete{ID: 7}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis: connection refused")
	cache.setErr = errors.New("redis: connection refused")
	svc := testService(athletes, &fakeActivities{activities: recentHRActivities(5)}, cache)

	metrics, err := svc.Metrics(context.Background(), 7, 30)
	if err != nil {
		t.Fatalf("Metrics with broken cache: %v", err)
	}
	if metrics.AcuteLoad <= 0 {
		t.Errorf("acute load = %v, want recomputed despite cache errors", metrics.AcuteLoad)
	}
}

func TestMetricsAthleteNotFound(t *testing.T) {
	t.Parallel()

	athletes := &fakeAthletes{err: repository.ErrNotFound}
	svc := testService(athletes, &fakeActivities{}, newFakeCache())

	if _, err := svc.Metrics(context.Background(), 999, 30); !errors.Is(err, ErrAthleteNotFound) {
		t.Errorf("Metrics for unknown athlete = %v, want ErrAthleteNotFound", err)
	}
}

func TestThresholdsStoredValuesOverrideEstimates(t *testing.T) {
	t.Parallel()

	maxHR := 185.0
	restHR := 52.0
	ftp := 260.0
	athletes := &fakeAthletes{athlete: &repository.Athlete{
		ID:               7,
		MaxHeartRate:     &maxHR,
		RestingHeartRate: &restHR,
		FTP:              &ftp,
	}}
	svc := testService(athletes, &fakeActivities{activities: recentHRActivities(5)}, newFakeCache())

	thresholds, err := svc.Thresholds(context.Background(), 7)
	if err != nil {
		t.Fatalf("Thresholds: %v", err)
	}
	if thresholds.MaxHeartRate != maxHR {
		t.Errorf("max HR = %v, want stored %v", thresholds.MaxHeartRate, maxHR)
	}
	if thresholds.RestingHeartRate != restHR {
		t.Errorf("resting HR = %v, want stored %v", thresholds.RestingHeartRate, restHR)
	}
	if thresholds.FTP == nil || *thresholds.FTP != ftp {
		t.Errorf("FTP = %v, want stored %v", thresholds.FTP, ftp)
	}
}

func TestPointsUsesRepositoryWindow(t *testing.T) {
	t.Parallel()

	athletes := &fakeAthletes{athlete: &repository.Athlete{ID: 7}}
	svc := testService(athletes, &fakeActivities{activities: recentHRActivities(3)}, newFakeCache())

	points, err := svc.Points(context.Background(), 7, 30)
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3 single-activity days", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date) {
			t.Errorf("points not strictly ascending at index %d", i)
		}
	}
}
