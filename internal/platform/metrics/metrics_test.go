package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Run("records against an isolated registry", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.IncrementOAuthCompletion("success")
		m.IncrementOAuthCompletion("success")
		m.ObserveBalanceFetch("ok", 12)
		m.IncrementHandoffResolution("handoff")
		m.SetBrowserSessions(3)
		m.IncrementLogouts()
		m.ObserveRequest("/me/balance", "GET", "2xx", 0.01)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.OAuthCompletions.WithLabelValues("success")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.BalanceFetches.WithLabelValues("ok")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.HandoffResolutions.WithLabelValues("handoff")))
		assert.Equal(t, 3.0, testutil.ToFloat64(m.BrowserSessions))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Logouts))
		assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
	})

	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() {
			m.IncrementOAuthCompletion("failure")
			m.ObserveBalanceFetch("error", 1)
			m.IncrementHandoffResolution("remote")
			m.SetBrowserSessions(1)
			m.IncrementLogouts()
			m.ObserveRequest("/", "GET", "2xx", 0)
		})
	})
}
