// Package storage holds the server's ephemeral state: OAuth state
// entries, request rate limiting, and a short lived cache of computed
// load metrics. Two backends exist, in-memory for development and
// redis for deployments.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pulsecoach/pulse/internal/analytics"
)

var ErrNotFound = errors.New("state not found")

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type StateEntry struct {
	LocalPort string    `json:"local_port"`
	CreatedAt time.Time `json:"created_at"`
}

type StateStore interface {
	Set(ctx context.Context, state string, entry StateEntry, ttl time.Duration) error

	// GetAndDelete atomically retrieves and removes a state entry.
	// Returns ErrNotFound if the state does not exist or has expired.
	GetAndDelete(ctx context.Context, state string) (StateEntry, error)
}

// MetricsCache keeps computed training load metrics hot so repeated
// dashboard polls do not recompute the rolling windows.
type MetricsCache interface {
	GetMetrics(ctx context.Context, key string) (*analytics.TrainingLoadMetrics, error)
	SetMetrics(ctx context.Context, key string, metrics *analytics.TrainingLoadMetrics, ttl time.Duration) error
}

type Backend interface {
	RateLimiter
	StateStore
	MetricsCache

	Close() error

	Ping(ctx context.Context) error
}
