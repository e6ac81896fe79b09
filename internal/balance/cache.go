// Package balance caches the spendable point balance of one browser session.
//
// Any surface may call MarkDirty; the next RefreshIfDirty performs exactly one fetch
// for the dirty cycle. Callers arriving while that fetch is in flight wait for its
// result instead of issuing their own.
package balance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"parlor/internal/platform/metrics"
	"parlor/pkg/platform/sentinel"
)

const flightKey = "balance"

var tracer = otel.Tracer("parlor/balance")

// FetchFunc reads the current balance from the remote API.
type FetchFunc func(ctx context.Context) (int64, error)

// Record is a point-in-time copy of the cache.
type Record struct {
	Value        int64 `json:"value"`
	NeedsRefresh bool  `json:"needsRefresh"`
}

// Cache is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	value int64
	dirty bool
	// dirtyEpoch advances on every MarkDirty so a fetch that started before the
	// latest mark does not clear the flag.
	dirtyEpoch uint64
	// resetEpoch advances on Reset so a fetch for a previous user never commits.
	resetEpoch uint64

	flight  singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Cache.
type Option func(*Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New returns a cache holding {0, needsRefresh=true}.
func New(opts ...Option) *Cache {
	c := &Cache{dirty: true, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// MarkDirty flags the cached value as stale.
func (c *Cache) MarkDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	c.dirtyEpoch++
}

// Reset returns the cache to {0, needsRefresh=true}. In-flight fetches started
// before the reset are discarded when they complete.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = 0
	c.dirty = true
	c.dirtyEpoch++
	c.resetEpoch++
}

// Snapshot returns the cached value and dirty flag.
func (c *Cache) Snapshot() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Record{Value: c.value, NeedsRefresh: c.dirty}
}

// RefreshIfDirty returns the cached value, fetching first when it is dirty.
//
// On fetch failure the stale value is returned together with the error and the
// dirty flag stays set. If ctx ends while waiting, the caller gets the stale value
// and ctx.Err(); the shared fetch keeps running for the other waiters.
func (c *Cache) RefreshIfDirty(ctx context.Context, fetch FetchFunc) (int64, error) {
	if rec := c.Snapshot(); !rec.NeedsRefresh {
		return rec.Value, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(flightKey, func() (any, error) {
		return c.refresh(fetchCtx, fetch)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return c.Snapshot().Value, res.Err
		}
		return res.Val.(int64), nil
	case <-ctx.Done():
		return c.Snapshot().Value, ctx.Err()
	}
}

func (c *Cache) refresh(ctx context.Context, fetch FetchFunc) (int64, error) {
	c.mu.Lock()
	if !c.dirty {
		// A flight that finished between the caller's check and DoChan already
		// satisfied this dirty cycle.
		v := c.value
		c.mu.Unlock()
		return v, nil
	}
	dirtyEpoch, resetEpoch := c.dirtyEpoch, c.resetEpoch
	c.mu.Unlock()

	ctx, span := tracer.Start(ctx, "balance.refresh")
	defer span.End()

	start := time.Now()
	value, err := fetch(ctx)
	if err == nil && value < 0 {
		err = fmt.Errorf("negative balance %d: %w", value, sentinel.ErrMalformed)
	}
	durationMs := float64(time.Since(start).Milliseconds())

	if err != nil {
		c.metrics.ObserveBalanceFetch("error", durationMs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "balance fetch failed")
		c.logger.WarnContext(ctx, "balance fetch failed, keeping cached value", "error", err)
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if resetEpoch != c.resetEpoch {
		c.metrics.ObserveBalanceFetch("discarded", durationMs)
		span.SetAttributes(attribute.Bool("balance.discarded", true))
		return c.value, nil
	}
	c.value = value
	if dirtyEpoch == c.dirtyEpoch {
		c.dirty = false
	}
	c.metrics.ObserveBalanceFetch("ok", durationMs)
	span.SetAttributes(attribute.Int64("balance.value", value))
	return value, nil
}
