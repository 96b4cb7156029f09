package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Item outcomes recorded per processed listing link.
const (
	OutcomeSeen       = "seen"
	OutcomeFiltered   = "filtered"
	OutcomeNotified   = "notified"
	OutcomeSendFailed = "send_failed"
)

// Metrics groups the Prometheus instruments of the watcher.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	Cycles        *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	Items         *prometheus.CounterVec
}

// New registers all instruments with reg. A custom registry keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watcher_cycles_total",
			Help: "Completed watcher cycles by result.",
		}, []string{"result"}),

		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "watcher_cycle_duration_seconds",
			Help:    "Wall time of one fetch-filter-notify cycle.",
			Buckets: prometheus.DefBuckets,
		}),

		Items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watcher_items_total",
			Help: "Listing links processed by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.Cycles, m.CycleDuration, m.Items)
	return m
}

func (m *Metrics) ObserveItem(outcome string) {
	if m == nil {
		return
	}
	m.Items.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCycle(err error, seconds float64) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Cycles.WithLabelValues(result).Inc()
	m.CycleDuration.Observe(seconds)
}
