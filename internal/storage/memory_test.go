package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
)

func newTestBackend(t *testing.T, ratePerSec float64, burst int) *MemoryBackend {
	t.Helper()
	m := NewMemoryBackend(ratePerSec, burst)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemoryBackendStateRoundTrip(t *testing.T) {
	t.Parallel()
	m := newTestBackend(t, 10, 10)
	ctx := context.Background()

	entry := StateEntry{LocalPort: "52341", CreatedAt: time.Now()}
	if err := m.Set(ctx, "state-1", entry, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := m.GetAndDelete(ctx, "state-1")
	if err != nil {
		t.Fatalf("GetAndDelete: %v", err)
	}
	if got.LocalPort != "52341" {
		t.Errorf("local port = %q, want 52341", got.LocalPort)
	}

	// Second read must miss; states are single use.
	if _, err := m.GetAndDelete(ctx, "state-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second GetAndDelete = %v, want ErrNotFound", err)
	}
}

func TestMemoryBackendStateExpiry(t *testing.T) {
	t.Parallel()
	m := newTestBackend(t, 10, 10)
	ctx := context.Background()

	entry := StateEntry{LocalPort: "52341", CreatedAt: time.Now().Add(-2 * time.Minute)}
	if err := m.Set(ctx, "stale", entry, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := m.GetAndDelete(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired state = %v, want ErrNotFound", err)
	}
}

func TestMemoryBackendRateLimit(t *testing.T) {
	t.Parallel()
	m := newTestBackend(t, 1, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := m.Allow(ctx, "client-a")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}

	allowed, err := m.Allow(ctx, "client-a")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if allowed {
		t.Error("request past burst should be denied")
	}

	// Separate keys get separate limiters.
	allowed, err = m.Allow(ctx, "client-b")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if !allowed {
		t.Error("fresh key should be allowed")
	}
}

func TestMemoryBackendMetricsCache(t *testing.T) {
	t.Parallel()
	m := newTestBackend(t, 10, 10)
	ctx := context.Background()

	if _, err := m.GetMetrics(ctx, "athlete:7"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetMetrics on empty cache = %v, want ErrNotFound", err)
	}

	metrics := &analytics.TrainingLoadMetrics{
		AcuteLoad:   55.5,
		ChronicLoad: 48.2,
		Balance:     1.15,
		Status:      analytics.StatusBuild,
	}
	if err := m.SetMetrics(ctx, "athlete:7", metrics, time.Minute); err != nil {
		t.Fatalf("SetMetrics: %v", err)
	}

	got, err := m.GetMetrics(ctx, "athlete:7")
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if got.AcuteLoad != 55.5 || got.Status != analytics.StatusBuild {
		t.Errorf("got %+v, want cached metrics back", got)
	}

	// Mutating the returned value must not corrupt the cache.
	got.AcuteLoad = 0
	again, err := m.GetMetrics(ctx, "athlete:7")
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if again.AcuteLoad != 55.5 {
		t.Error("cache entry mutated through returned pointer")
	}
}

func TestMemoryBackendMetricsExpiry(t *testing.T) {
	t.Parallel()
	m := newTestBackend(t, 10, 10)
	ctx := context.Background()

	metrics := &analytics.TrainingLoadMetrics{AcuteLoad: 10}
	if err := m.SetMetrics(ctx, "athlete:9", metrics, -time.Second); err != nil {
		t.Fatalf("SetMetrics: %v", err)
	}

	if _, err := m.GetMetrics(ctx, "athlete:9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired metrics = %v, want ErrNotFound", err)
	}
}
