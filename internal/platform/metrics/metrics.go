package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the web session core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	OAuthCompletions     *prometheus.CounterVec
	BalanceFetches       *prometheus.CounterVec
	BalanceFetchDuration prometheus.Histogram
	HandoffResolutions   *prometheus.CounterVec
	BrowserSessions      prometheus.Gauge
	Logouts              prometheus.Counter
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OAuthCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parlor_oauth_completions_total",
			Help: "OAuth redirect completions by terminal outcome",
		}, []string{"outcome"}),
		BalanceFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parlor_balance_fetches_total",
			Help: "Balance refresh fetches by result",
		}, []string{"result"}),
		BalanceFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "parlor_balance_fetch_duration_ms",
			Help:    "Latency of balance refresh fetches in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		HandoffResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parlor_handoff_resolutions_total",
			Help: "Chat room resolutions by source (handoff or remote)",
		}, []string{"source"}),
		BrowserSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "parlor_browser_sessions",
			Help: "Current number of live browser sessions",
		}),
		Logouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "parlor_logouts_total",
			Help: "Total number of logouts",
		}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parlor_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) IncrementOAuthCompletion(outcome string) {
	if m == nil {
		return
	}
	m.OAuthCompletions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveBalanceFetch(result string, durationMs float64) {
	if m == nil {
		return
	}
	m.BalanceFetches.WithLabelValues(result).Inc()
	m.BalanceFetchDuration.Observe(durationMs)
}

func (m *Metrics) IncrementHandoffResolution(source string) {
	if m == nil {
		return
	}
	m.HandoffResolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) SetBrowserSessions(count int) {
	if m == nil {
		return
	}
	m.BrowserSessions.Set(float64(count))
}

func (m *Metrics) IncrementLogouts() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}
