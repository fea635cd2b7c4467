// Package statscache keeps the most recent platform statistics snapshot and
// serves it for a short freshness window before recomputing.
package statscache

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/metrics"
	"github.com/vytor/flashdeck/internal/models"
)

// DefaultWindow is how long a computed snapshot is served without recomputing.
const DefaultWindow = 10 * time.Second

// Computer produces a fresh platform stats snapshot.
type Computer interface {
	PlatformStats(ctx context.Context) (models.PlatformStats, error)
}

// Snapshot is a stored computation result.
type Snapshot struct {
	Stats      models.PlatformStats `json:"stats"`
	ComputedAt time.Time            `json:"computedAt"`
}

// Slot stores at most one snapshot. Load returns nil when the slot is empty.
type Slot interface {
	Load(ctx context.Context) (*Snapshot, error)
	Store(ctx context.Context, snap Snapshot) error
}

// Result is what Get hands to callers. Stale is set when the stats could not
// be recomputed and Stats is an older snapshot or a zeroed default.
type Result struct {
	Stats  models.PlatformStats
	Cached bool
	Stale  bool
	Err    string
}

type Cache struct {
	computer Computer
	slot     Slot
	window   time.Duration
	now      func() time.Time
}

type Option func(*Cache)

// WithWindow sets the freshness window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithSlot replaces the in-process slot.
func WithSlot(slot Slot) Option {
	return func(c *Cache) {
		c.slot = slot
	}
}

// New creates a cache in front of computer, backed by an in-process slot
// unless WithSlot says otherwise.
func New(computer Computer, opts ...Option) *Cache {
	c := &Cache{
		computer: computer,
		slot:     &MemorySlot{},
		window:   DefaultWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window returns the freshness window.
func (c *Cache) Window() time.Duration {
	return c.window
}

// Get returns the cached snapshot while it is fresh and recomputes otherwise.
// It never fails: a failed recomputation degrades to the previous snapshot,
// or to zeroed stats, flagged as stale.
//
// Concurrent callers that all miss recompute independently; the last Store
// wins.
func (c *Cache) Get(ctx context.Context) Result {
	log := logger.FromContext(ctx).WithPrefix("stats_cache")
	now := c.now()

	prev, err := c.slot.Load(ctx)
	if err != nil {
		log.Warn("failed to load cached stats, recomputing: %v", err)
		prev = nil
	}
	if prev != nil && now.Sub(prev.ComputedAt) < c.window {
		metrics.StatsCacheLookup(metrics.CacheHit)
		log.Debug("serving cached stats computed at %s", prev.ComputedAt.Format(time.RFC3339))
		return Result{Stats: prev.Stats, Cached: true}
	}

	metrics.StatsCacheLookup(metrics.CacheMiss)
	stats, err := c.computer.PlatformStats(ctx)
	if err != nil {
		metrics.StatsCacheLookup(metrics.CacheStale)
		log.Error("failed to compute platform stats: %v", err)
		if prev != nil {
			return Result{Stats: prev.Stats, Cached: true, Stale: true, Err: err.Error()}
		}
		return Result{Stats: models.PlatformStats{LastUpdated: now}, Stale: true, Err: err.Error()}
	}

	stats.LastUpdated = now
	if err := c.slot.Store(ctx, Snapshot{Stats: stats, ComputedAt: now}); err != nil {
		log.Warn("failed to store stats snapshot: %v", err)
	}
	return Result{Stats: stats}
}
