package websession

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"parlor/internal/platform/metrics"
)

// Factory builds the components of a new browser session.
type Factory func(id, device string, now time.Time) *Session

// Registry maps opaque browser session ids to live sessions. Idle sessions are
// dropped by Sweep.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	factory Factory
	idleTTL time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

func WithRegistryMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, idleTTL time.Duration, opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the live session for id.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Create starts a new browser session under a fresh id.
func (r *Registry) Create(ctx context.Context, device string) *Session {
	id := uuid.NewString()
	s := r.factory(id, device, r.now())

	r.mu.Lock()
	r.sessions[id] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetBrowserSessions(count)
	r.logger.DebugContext(ctx, "browser session created", "browser_session", id, "device", device)
	return s
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many it removed.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	count := len(r.sessions)
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	r.metrics.SetBrowserSessions(count)
	if len(expired) > 0 {
		r.logger.InfoContext(ctx, "expired idle browser sessions", "count", len(expired), "remaining", count)
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}
