package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/pulsecoach/pulse/internal/analytics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTokensRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Tokens.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}

	expiry := time.Now().Add(6 * time.Hour).UTC().Truncate(time.Second)
	token := &oauth2.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}

	if err := s.Tokens.Save(ctx, token); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Tokens.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AccessToken != "access-1" || got.RefreshToken != "refresh-1" {
		t.Errorf("got token %q/%q, want access-1/refresh-1", got.AccessToken, got.RefreshToken)
	}
	if !got.Expiry.Equal(expiry) {
		t.Errorf("expiry = %v, want %v", got.Expiry, expiry)
	}

	// A refresh response without a refresh token must not clobber the
	// stored one.
	if err := s.Tokens.Save(ctx, &oauth2.Token{
		AccessToken: "access-2",
		TokenType:   "Bearer",
		Expiry:      expiry.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Save refresh: %v", err)
	}

	got, err = s.Tokens.Get(ctx)
	if err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}
	if got.AccessToken != "access-2" {
		t.Errorf("access token = %q, want access-2", got.AccessToken)
	}
	if got.RefreshToken != "refresh-1" {
		t.Errorf("refresh token = %q, want preserved refresh-1", got.RefreshToken)
	}
}

func testActivity(id int64, start time.Time) analytics.Activity {
	hr := 140.0
	return analytics.Activity{
		ID:               id,
		AthleteID:        7,
		Name:             "Morning Run",
		SportType:        "Run",
		StartDateLocal:   start,
		MovingTimeSec:    1800,
		ElapsedTimeSec:   1900,
		HasHeartRate:     true,
		AverageHeartRate: &hr,
	}
}

func TestActivitiesUpsertAndList(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	batch := []analytics.Activity{
		testActivity(3, base.AddDate(0, 0, 2)),
		testActivity(1, base),
		testActivity(2, base.AddDate(0, 0, 1)),
	}
	if err := s.Activities.UpsertBatch(ctx, batch); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	all, err := s.Activities.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].StartDateLocal.Before(all[i-1].StartDateLocal) {
			t.Errorf("activities not sorted ascending at index %d", i)
		}
	}

	// Re-upserting the same ID must update, not duplicate.
	renamed := testActivity(2, base.AddDate(0, 0, 1))
	renamed.Name = "Lunch Run"
	if err := s.Activities.Upsert(ctx, renamed); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	count, err := s.Activities.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	got, err := s.Activities.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Lunch Run" {
		t.Errorf("name = %q, want Lunch Run", got.Name)
	}
	if got.AverageHeartRate == nil || *got.AverageHeartRate != 140.0 {
		t.Errorf("average heart rate not round tripped: %v", got.AverageHeartRate)
	}
	if got.AveragePower != nil {
		t.Errorf("expected nil power, got %v", *got.AveragePower)
	}

	since := base.AddDate(0, 0, 1)
	recent, err := s.Activities.List(ctx, &since)
	if err != nil {
		t.Fatalf("List since: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("len(recent) = %d, want 2", len(recent))
	}

	latest, err := s.Activities.LatestStart(ctx)
	if err != nil {
		t.Fatalf("LatestStart: %v", err)
	}
	if latest == nil || !latest.Equal(base.AddDate(0, 0, 2)) {
		t.Errorf("latest = %v, want %v", latest, base.AddDate(0, 0, 2))
	}
}

func TestActivitiesLatestStart(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	latest, err := s.Activities.LatestStart(ctx)
	if err != nil {
		t.Fatalf("LatestStart on empty store: %v", err)
	}
	if latest != nil {
		t.Errorf("latest = %v, want nil for empty store", latest)
	}

	newest := time.Date(2024, 4, 10, 6, 30, 0, 0, time.UTC)
	batch := []analytics.Activity{
		testActivity(10, newest.AddDate(0, 0, -3)),
		testActivity(11, newest),
		testActivity(12, newest.AddDate(0, 0, -1)),
	}
	if err := s.Activities.UpsertBatch(ctx, batch); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	latest, err = s.Activities.LatestStart(ctx)
	if err != nil {
		t.Fatalf("LatestStart: %v", err)
	}
	if latest == nil || !latest.Equal(newest) {
		t.Errorf("latest = %v, want %v", latest, newest)
	}
}

func TestSyncStateDefaults(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	window, err := s.SyncState.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if window.BackfillComplete {
		t.Error("fresh store should not report backfill complete")
	}
	if window.BackfillWatermark != nil || window.LastFullSync != nil {
		t.Error("fresh store should have nil watermarks")
	}

	watermark := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SyncState.UpdateBackfillWatermark(ctx, watermark); err != nil {
		t.Fatalf("UpdateBackfillWatermark: %v", err)
	}
	if err := s.SyncState.MarkBackfillComplete(ctx); err != nil {
		t.Fatalf("MarkBackfillComplete: %v", err)
	}

	window, err = s.SyncState.Get(ctx)
	if err != nil {
		t.Fatalf("Get after updates: %v", err)
	}
	if !window.BackfillComplete {
		t.Error("expected backfill complete")
	}
	if window.BackfillWatermark == nil || !window.BackfillWatermark.Equal(watermark) {
		t.Errorf("watermark = %v, want %v", window.BackfillWatermark, watermark)
	}
}
