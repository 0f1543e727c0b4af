package storage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pulsecoach/pulse/internal/analytics"
)

var _ Backend = (*MemoryBackend)(nil)

type stateWithTTL struct {
	entry StateEntry
	ttl   time.Duration
}

type metricsWithExpiry struct {
	metrics   analytics.TrainingLoadMetrics
	expiresAt time.Time
}

type MemoryBackend struct {
	// Rate limiting
	limiters  map[string]*rate.Limiter
	limiterMu sync.RWMutex
	rateLimit rate.Limit
	rateBurst int

	// OAuth state storage
	states   map[string]stateWithTTL
	statesMu sync.RWMutex

	// Metrics cache
	metrics   map[string]metricsWithExpiry
	metricsMu sync.RWMutex

	// Cleanup
	done chan struct{}
}

func NewMemoryBackend(ratePerSec float64, burst int) *MemoryBackend {
	m := &MemoryBackend{
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rate.Limit(ratePerSec),
		rateBurst: burst,
		states:    make(map[string]stateWithTTL),
		metrics:   make(map[string]metricsWithExpiry),
		done:      make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *MemoryBackend) Allow(_ context.Context, key string) (bool, error) {
	m.limiterMu.RLock()
	limiter, exists := m.limiters[key]
	m.limiterMu.RUnlock()

	if exists {
		return limiter.Allow(), nil
	}

	m.limiterMu.Lock()
	defer m.limiterMu.Unlock()

	limiter, exists = m.limiters[key]
	if exists {
		return limiter.Allow(), nil
	}

	limiter = rate.NewLimiter(m.rateLimit, m.rateBurst)
	m.limiters[key] = limiter
	return limiter.Allow(), nil
}

func (m *MemoryBackend) Set(_ context.Context, state string, entry StateEntry, ttl time.Duration) error {
	m.statesMu.Lock()
	m.states[state] = stateWithTTL{entry: entry, ttl: ttl}
	m.statesMu.Unlock()
	return nil
}

func (m *MemoryBackend) GetAndDelete(_ context.Context, state string) (StateEntry, error) {
	m.statesMu.Lock()
	s, ok := m.states[state]
	if ok {
		delete(m.states, state)
	}
	m.statesMu.Unlock()

	if !ok {
		return StateEntry{}, ErrNotFound
	}

	if time.Since(s.entry.CreatedAt) > s.ttl {
		return StateEntry{}, ErrNotFound
	}

	return s.entry, nil
}

func (m *MemoryBackend) GetMetrics(_ context.Context, key string) (*analytics.TrainingLoadMetrics, error) {
	m.metricsMu.RLock()
	entry, ok := m.metrics[key]
	m.metricsMu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	metrics := entry.metrics
	return &metrics, nil
}

func (m *MemoryBackend) SetMetrics(_ context.Context, key string, metrics *analytics.TrainingLoadMetrics, ttl time.Duration) error {
	m.metricsMu.Lock()
	m.metrics[key] = metricsWithExpiry{
		metrics:   *metrics,
		expiresAt: time.Now().Add(ttl),
	}
	m.metricsMu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error {
	close(m.done)
	return nil
}

func (m *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryBackend) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()

			m.statesMu.Lock()
			for state, s := range m.states {
				if now.Sub(s.entry.CreatedAt) > s.ttl {
					delete(m.states, state)
				}
			}
			m.statesMu.Unlock()

			m.metricsMu.Lock()
			for key, entry := range m.metrics {
				if now.After(entry.expiresAt) {
					delete(m.metrics, key)
				}
			}
			m.metricsMu.Unlock()
		case <-m.done:
			return
		}
	}
}
